package decoder

import (
	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
)

// scriptStep is one scripted decode call of testAdapter.
type scriptStep struct {
	status   Status
	pictures int
}

// testAdapter runs a scripted Stepper over a g1test H.264 instance.
type testAdapter struct {
	openErr error
	script  []scriptStep
	// repeat is returned once the script is exhausted.
	repeat Status
	info   StreamInfo

	codec   g1.H264Decoder
	opens   int
	closes  int
	// inputs and headers hold copies of the decoded bytes.
	inputs  []Input
	headers []Input
	steps   int
}

func newTestAdapter(script ...scriptStep) *testAdapter {
	return &testAdapter{
		script: script,
		repeat: Status{Event: EventProcessed},
		info:   StreamInfo{Format: frame.FormatNV12, Width: 320, Height: 240},
	}
}

func (a *testAdapter) Kind() CodecKind {
	return g1.DecTypeH264
}

func (a *testAdapter) Open(hw g1.Hardware) (g1.Codec, error) {
	if a.openErr != nil {
		return nil, a.openErr
	}
	d, err := hw.NewH264Decoder(g1.H264Config{})
	if err != nil {
		return nil, err
	}
	a.codec = d
	a.opens++
	return d, nil
}

func (a *testAdapter) Close() error {
	if a.codec != nil {
		a.codec.Release()
		a.codec = nil
		a.closes++
	}
	return nil
}

func (a *testAdapter) Decode(s *Session, in Input) error {
	in.Stream = append([]byte(nil), in.Stream...)
	a.inputs = append(a.inputs, in)
	return s.Run(&testStepper{a: a})
}

func (a *testAdapter) DecodeHeader(s *Session, in Input) error {
	in.Stream = append([]byte(nil), in.Stream...)
	a.headers = append(a.headers, in)
	return s.SetStreamInfo(a.info)
}

type testStepper struct {
	a       *testAdapter
	pending int
	popped  uint32
}

func (st *testStepper) Step() Status {
	st.a.steps++
	if len(st.a.script) == 0 {
		return st.a.repeat
	}
	step := st.a.script[0]
	st.a.script = st.a.script[1:]
	st.pending += step.pictures
	return step.status
}

func (st *testStepper) StreamInfo() (StreamInfo, error) {
	return st.a.info, nil
}

func (st *testStepper) NextPicture() (PictureInfo, bool, error) {
	if st.pending == 0 {
		return PictureInfo{}, false, nil
	}
	st.pending--
	st.popped++
	return PictureInfo{ID: st.popped}, true, nil
}

func (st *testStepper) Remaining() int {
	return 0
}
