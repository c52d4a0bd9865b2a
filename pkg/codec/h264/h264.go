// Package h264 drives the G1 H.264 decoder.
package h264

import (
	"fmt"
	"sync"

	"github.com/pion/hantro/internal/logging"
	"github.com/pion/hantro/pkg/codec"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
)

// Name is the codec name the adapter is registered under.
const Name = "h264"

var logger = logging.NewLogger("hantro/h264")

func init() {
	p, _ := NewParams()
	codec.Register(Name, &p, ".h264", ".264", ".avc", ".mp4", ".mov")
}

// Adapter is the H.264 decoder.Adapter.
type Adapter struct {
	mu     sync.Mutex
	params Params

	dec g1.H264Decoder
}

var _ decoder.Adapter = &Adapter{}

func newAdapter(p Params) *Adapter {
	return &Adapter{params: p}
}

// SetParams replaces the parameters.
func (a *Adapter) SetParams(p Params) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.params = p
}

func (a *Adapter) Params() Params {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.params
}

func (a *Adapter) Kind() decoder.CodecKind {
	return g1.DecTypeH264
}

func (a *Adapter) Open(hw g1.Hardware) (g1.Codec, error) {
	p := a.Params()

	logger.Infof("opening H264 decoder")
	dec, err := hw.NewH264Decoder(g1.H264Config{
		DisableOutputReordering: p.DisableOutputReordering,
		IntraFreezeConcealment:  p.IntraFreezeConcealment,
		UseDisplaySmoothing:     p.UseDisplaySmoothing,
		DPBFlags:                g1.DPBAllowFieldOrdering,
	})
	if err != nil {
		return nil, err
	}

	a.dec = dec
	return dec, nil
}

func (a *Adapter) Close() error {
	if a.dec == nil {
		return nil
	}

	logger.Infof("closing H264 decoder")
	a.dec.Release()
	a.dec = nil
	return nil
}

func (a *Adapter) Decode(s *decoder.Session, in decoder.Input) error {
	st := &stepper{
		dec: a.dec,
		in: g1.H264Input{
			Stream:           in.Stream,
			BusAddress:       in.BusAddress,
			SkipNonReference: a.Params().SkipNonReference,
		},
	}
	return s.Run(st)
}

type stepper struct {
	dec g1.H264Decoder
	in  g1.H264Input
	out g1.H264Output
}

func (st *stepper) Step() decoder.Status {
	ret := st.dec.Decode(&st.in, &st.out)
	status := classify(ret)
	if status.Event == decoder.EventFatal {
		return status
	}

	consumed := len(st.in.Stream) - st.out.DataLeft
	if consumed < 0 {
		consumed = 0
	}
	st.in.Stream = st.in.Stream[consumed:]
	st.in.BusAddress = st.out.StrmCurrBusAddress

	if ret == g1.H264StrmProcessed || st.out.DataLeft == 0 {
		status.Final = true
	}
	return status
}

func classify(ret g1.H264Ret) decoder.Status {
	switch ret {
	case g1.H264StrmProcessed:
		return decoder.Status{Event: decoder.EventProcessed, Code: ret}
	case g1.H264HdrsRdy:
		return decoder.Status{Event: decoder.EventHeaders, Code: ret}
	case g1.H264PicDecoded:
		return decoder.Status{Event: decoder.EventPicture, Code: ret}
	case g1.H264AdvancedTools, g1.H264NonrefPicSkipped:
		return decoder.Status{Event: decoder.EventContinue, Code: ret}
	case g1.H264StreamNotSupported, g1.H264StrmError:
		return decoder.Status{Event: decoder.EventStreamError, Code: ret}
	case g1.H264HWTimeout, g1.H264HWBusError, g1.H264SystemError, g1.H264DWLError:
		return decoder.Status{Event: decoder.EventFatal, Final: true, Code: ret}
	default:
		panic(fmt.Sprintf("h264: unhandled return code %s (%d)", ret, int(ret)))
	}
}

func (st *stepper) StreamInfo() (decoder.StreamInfo, error) {
	var info g1.H264Info
	if ret := st.dec.GetInfo(&info); ret != g1.H264OK {
		logger.Errorf("%v", ret)
		return decoder.StreamInfo{}, ret
	}

	logger.Infof("parsed H264 headers: %dx%d, video range %d, matrix %d, output %s, SAR %d:%d, monochrome %v, interlaced %v, DPB mode %d, pic buffer size %d, multi buffer PP size %d",
		info.PicWidth, info.PicHeight, info.VideoRange, info.MatrixCoefficients, info.OutputFormat,
		info.SarWidth, info.SarHeight, info.MonoChrome, info.Interlaced, info.DPBMode,
		info.PicBuffSize, info.MultiBuffPPSize)

	return decoder.StreamInfo{
		Format:     frame.FormatNV12,
		Width:      info.PicWidth,
		Height:     info.PicHeight,
		ParN:       info.SarWidth,
		ParD:       info.SarHeight,
		Interlaced: info.Interlaced,
	}, nil
}

func (st *stepper) NextPicture() (decoder.PictureInfo, bool, error) {
	var pic g1.H264Picture
	ret := st.dec.NextPicture(&pic, false)
	logger.Tracef("%s (%d) 0x%08x", ret, int(ret), pic.OutputBusAddress)

	switch {
	case ret == g1.H264PicRdy:
		return decoder.PictureInfo{
			ID:     pic.PicID,
			Key:    pic.IsIDR,
			ErrMBs: pic.NbrOfErrMBs,
		}, true, nil
	case ret.Fatal():
		return decoder.PictureInfo{}, false, decoder.NewError("next picture", decoder.KindFatal, ret)
	default:
		logger.Tracef("no more pictures to pop")
		return decoder.PictureInfo{}, false, nil
	}
}

func (st *stepper) Remaining() int {
	return st.out.DataLeft
}
