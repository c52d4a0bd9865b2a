package vp8

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/hantro/pkg/codec"
	"github.com/pion/hantro/pkg/codec/internal/codectest"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/g1/g1test"
)

type step = g1test.Step[g1.VP8Ret]

var info = g1.VP8Info{
	VpVersion:    0,
	CodedWidth:   640,
	CodedHeight:  480,
	FrameWidth:   640,
	FrameHeight:  480,
	OutputFormat: g1.OutputSemiplanar420,
}

func params(t *testing.T) *Params {
	t.Helper()

	p, err := NewParams()
	require.NoError(t, err)
	return &p
}

func openSession(t *testing.T, hw *g1test.Hardware, opts decoder.Options) (*decoder.Session, *Adapter, *codectest.Collector) {
	t.Helper()

	a := &Adapter{params: *params(t)}
	c := &codectest.Collector{}
	s, err := decoder.NewSession(hw, a, c, opts)
	require.NoError(t, err)
	require.NoError(t, s.Open())
	t.Cleanup(func() {
		c.Release()
		s.Close()
	})
	return s, a, c
}

func frame(n int) decoder.AccessUnit {
	data := make([]byte, n)
	copy(data, []byte{0x10, 0x02, 0x00, 0x9d, 0x01, 0x2a})
	return decoder.AccessUnit{Data: data}
}

func TestShouldImplementBuilder(t *testing.T) {
	var _ codec.Builder = &Params{}
}

func TestRegistered(t *testing.T) {
	name, ok := codec.ForFile("movie.ivf")
	assert.True(t, ok)
	assert.Equal(t, Name, name)
}

func TestAdapterCloseTwice(t *testing.T) {
	codectest.AdapterCloseTwiceTest(t, params(t))
}

func TestOpenRollback(t *testing.T) {
	codectest.OpenRollbackTest(t, params(t))
}

func TestUnhandledCode(t *testing.T) {
	codectest.UnhandledCodeTest(t, params(t), func(hw *g1test.Hardware) {
		hw.VP8 = &g1test.VP8Decoder{Steps: []step{{Ret: g1.VP8AdvancedTools}}}
	})
}

func TestParams(t *testing.T) {
	testCases := map[string]struct {
		modify func(p *Params)
		valid  bool
	}{
		"Default":        {func(p *Params) {}, true},
		"MinBuffers":     {func(p *Params) { p.NumFrameBuffers = 2 }, true},
		"TooFewBuffers":  {func(p *Params) { p.NumFrameBuffers = 1 }, false},
		"TooManyBuffers": {func(p *Params) { p.NumFrameBuffers = 17 }, false},
		"WebP":           {func(p *Params) { p.Format = g1.VP8FormatWebP }, true},
		"UnknownFormat":  {func(p *Params) { p.Format = 0 }, false},
	}
	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			p := params(t)
			testCase.modify(p)
			_, err := p.BuildAdapter()
			if testCase.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestOpenAppliesParams(t *testing.T) {
	hw := codectest.NewHardware()
	p := params(t)
	p.VideoFreezeConcealment = true

	codectest.OpenSession(t, hw, p, decoder.Options{})

	assert.Equal(t, g1.VP8Config{
		Format:                 g1.VP8FormatVP8,
		VideoFreezeConcealment: true,
		NumFrameBuffers:        DefaultFrameBuffers,
	}, hw.VP8.Config)
	assert.Equal(t, g1.DecTypeVP8, hw.PP.DecType)
}

func TestHeadersThenPicture(t *testing.T) {
	hw := codectest.NewHardware()
	hw.VP8 = &g1test.VP8Decoder{
		Info: info,
		Steps: []step{
			{Ret: g1.VP8HdrsRdy, Left: 100},
			{Ret: g1.VP8PicDecoded, Pictures: 1},
		},
	}
	s, a, c := openSession(t, hw, decoder.Options{})

	require.NoError(t, s.HandleInput(frame(100)))

	require.Len(t, hw.VP8.Inputs, 2)
	assert.Len(t, hw.VP8.Inputs[1].Stream, 100, "the input must not be advanced")
	assert.Equal(t, hw.VP8.Inputs[0].BusAddress, hw.VP8.Inputs[1].BusAddress)

	require.Len(t, c.Pictures, 1)
	assert.Equal(t, 640, c.Pictures[0].Width)
	assert.Equal(t, 480, c.Pictures[0].Height)
	assert.Equal(t, byte(1), c.Pictures[0].Data()[0])
	assert.Equal(t, 1, a.Decoded())

	require.NoError(t, s.HandleInput(frame(40)))
	assert.Len(t, c.Pictures, 2)
	assert.Equal(t, 2, a.Decoded())
}

func TestSliceReady(t *testing.T) {
	hw := codectest.NewHardware()
	hw.VP8 = &g1test.VP8Decoder{
		Info: info,
		Steps: []step{
			{Ret: g1.VP8HdrsRdy},
			{Ret: g1.VP8SliceRdy, Pictures: 1},
			{Ret: g1.VP8PicDecoded},
		},
	}
	s, _, c := openSession(t, hw, decoder.Options{})

	require.NoError(t, s.HandleInput(frame(64)))
	assert.Equal(t, 3, hw.VP8.Calls())
	assert.Len(t, c.Pictures, 1)
}

func TestProcessedEndsLoop(t *testing.T) {
	hw := codectest.NewHardware()
	hw.VP8 = &g1test.VP8Decoder{Steps: []step{{Ret: g1.VP8StrmProcessed}}}
	s, _, c := openSession(t, hw, decoder.Options{})

	require.NoError(t, s.HandleInput(frame(64)))
	assert.Equal(t, 1, hw.VP8.Calls())
	assert.Empty(t, c.Pictures)
}

func TestStreamErrorEndsLoop(t *testing.T) {
	for _, ret := range []g1.VP8Ret{g1.VP8NotInitialized, g1.VP8StrmError} {
		ret := ret
		t.Run(ret.String(), func(t *testing.T) {
			hw := codectest.NewHardware()
			hw.VP8 = &g1test.VP8Decoder{Steps: []step{{Ret: ret}}}
			s, _, _ := openSession(t, hw, decoder.Options{})

			require.NoError(t, s.HandleInput(frame(64)))
			assert.Equal(t, 1, hw.VP8.Calls())
			assert.Equal(t, 1, s.Stats().StreamErrors)
		})
	}
}

func TestSystemErrorFailsSession(t *testing.T) {
	hw := codectest.NewHardware()
	hw.VP8 = &g1test.VP8Decoder{Steps: []step{{Ret: g1.VP8SystemError}}}
	s, _, _ := openSession(t, hw, decoder.Options{})

	err := s.HandleInput(frame(64))
	assert.True(t, errors.Is(err, g1.VP8SystemError))
	assert.True(t, decoder.IsFatal(err))
	assert.Equal(t, decoder.StateFailed, s.State())
}

func TestUnsupportedOutputFormat(t *testing.T) {
	hw := codectest.NewHardware()
	tiled := info
	tiled.OutputFormat = g1.OutputTiled420
	hw.VP8 = &g1test.VP8Decoder{
		Info:  tiled,
		Steps: []step{{Ret: g1.VP8HdrsRdy}},
	}
	s, _, _ := openSession(t, hw, decoder.Options{})

	err := s.HandleInput(frame(64))
	assert.True(t, errors.Is(err, g1.ErrUnsupportedFormat))
	assert.Equal(t, decoder.KindStream, decoder.KindOf(err))
	assert.Equal(t, decoder.StateOpened, s.State())
}

func TestLoopLimit(t *testing.T) {
	hw := codectest.NewHardware()
	hw.VP8 = &g1test.VP8Decoder{
		Info:  info,
		Steps: make([]step, 8),
	}
	for i := range hw.VP8.Steps {
		hw.VP8.Steps[i] = step{Ret: g1.VP8HdrsRdy}
	}
	s, _, _ := openSession(t, hw, decoder.Options{MaxSteps: 4})

	require.NoError(t, s.HandleInput(frame(64)))
	assert.Equal(t, 4, hw.VP8.Calls())
	assert.Equal(t, 1, s.Stats().StreamErrors)
}

func TestCodecData(t *testing.T) {
	hw := codectest.NewHardware()
	hw.VP8 = &g1test.VP8Decoder{
		Info:  info,
		Steps: []step{{Ret: g1.VP8HdrsRdy}},
	}
	s, _, c := openSession(t, hw, decoder.Options{})
	s.SetCodecData([]byte{0x10, 0x02, 0x00, 0x9d, 0x01, 0x2a})

	require.NoError(t, s.HandleInput(frame(64)))
	assert.Equal(t, 2, hw.VP8.Calls())
	assert.True(t, s.PP().InputKnown())
	assert.Len(t, c.Pictures, 1)
}
