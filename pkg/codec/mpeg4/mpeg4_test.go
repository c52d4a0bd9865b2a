package mpeg4

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

type step = g1test.Step[g1.MP4Ret]

var info = g1.MP4Info{
	FrameWidth:  176,
	FrameHeight: 144,
	ParWidth:    12,
	ParHeight:   11,
}

func params(t *testing.T) *Params {
	t.Helper()

	p, err := NewParams()
	require.NoError(t, err)
	return &p
}

func accessUnit(n int) decoder.AccessUnit {
	data := make([]byte, n)
	copy(data, []byte{0, 0, 1, 0xb6})
	return decoder.AccessUnit{Data: data}
}

func TestShouldImplementBuilder(t *testing.T) {
	var _ codec.Builder = &Params{}
}

func TestRegistered(t *testing.T) {
	for _, file := range []string{"clip.m4v", "clip.cmp"} {
		name, ok := codec.ForFile(file)
		assert.True(t, ok, file)
		assert.Equal(t, Name, name, file)
	}
}

func TestAdapterCloseTwice(t *testing.T) {
	codectest.AdapterCloseTwiceTest(t, params(t))
}

func TestOpenRollback(t *testing.T) {
	codectest.OpenRollbackTest(t, params(t))
}

func TestUnhandledCode(t *testing.T) {
	codectest.UnhandledCodeTest(t, params(t), func(hw *g1test.Hardware) {
		hw.MP4 = &g1test.MP4Decoder{Steps: []step{{Ret: g1.MP4ParamError}}}
	})
}

func TestParams(t *testing.T) {
	p := params(t)
	assert.Equal(t, DefaultFrameBuffers, p.NumFrameBuffers)
	assert.Equal(t, g1.MP4StreamMPEG4, p.StreamFormat)

	for n, valid := range map[int]bool{
		2:  false,
		3:  true,
		16: true,
		17: false,
	} {
		p.NumFrameBuffers = n
		_, err := p.BuildAdapter()
		if valid {
			assert.NoError(t, err, n)
		} else {
			assert.Error(t, err, n)
		}
	}

	a := newAdapter(*params(t))
	assert.Error(t, a.SetParams(Params{NumFrameBuffers: 1}))
	assert.Equal(t, DefaultFrameBuffers, a.Params().NumFrameBuffers)
}

func TestOpenAppliesParams(t *testing.T) {
	hw := codectest.NewHardware()
	p := params(t)
	p.StreamFormat = g1.MP4StreamSorenson
	p.VideoFreezeConcealment = true
	p.NumFrameBuffers = 8

	codectest.OpenSession(t, hw, p, decoder.Options{})

	assert.Equal(t, g1.MP4Config{
		StreamFormat:           g1.MP4StreamSorenson,
		VideoFreezeConcealment: true,
		NumFrameBuffers:        8,
	}, hw.MP4.Config)
	assert.Equal(t, g1.DecTypeMPEG4, hw.PP.DecType)
}

func TestCodecData(t *testing.T) {
	hw := codectest.NewHardware()
	hw.MP4 = &g1test.MP4Decoder{
		Info:  info,
		Steps: []step{{Ret: g1.MP4HdrsRdy}},
	}
	s, _ := codectest.OpenSession(t, hw, params(t), decoder.Options{})
	s.SetCodecData([]byte{0, 0, 1, 0xb0, 1, 2, 3})

	require.NoError(t, s.HandleInput(accessUnit(32)))
	require.Equal(t, 2, hw.MP4.Calls())
	assert.Len(t, hw.MP4.Inputs[0].Stream, 7)
	assert.Len(t, hw.MP4.Inputs[1].Stream, 32)

	_, w, h := s.OutputFormat()
	assert.Equal(t, 176, w)
	assert.Equal(t, 144, h)
	parN, parD := s.PixelAspectRatio()
	assert.Equal(t, 12, parN)
	assert.Equal(t, 11, parD)

	require.NoError(t, s.HandleInput(accessUnit(32)))
	assert.Equal(t, 3, hw.MP4.Calls(), "codec data must be parsed once")
}

func TestCodecDataUnexpectedCode(t *testing.T) {
	hw := codectest.NewHardware()
	hw.MP4 = &g1test.MP4Decoder{Steps: []step{{Ret: g1.MP4StrmError}}}
	s, _ := codectest.OpenSession(t, hw, params(t), decoder.Options{})
	s.SetCodecData([]byte{0, 0, 1, 0xb0})

	require.NoError(t, s.HandleInput(accessUnit(8)))
	_, w, h := s.OutputFormat()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestCodecDataFatal(t *testing.T) {
	hw := codectest.NewHardware()
	hw.MP4 = &g1test.MP4Decoder{Steps: []step{{Ret: g1.MP4DWLError}}}
	s, _ := codectest.OpenSession(t, hw, params(t), decoder.Options{})
	s.SetCodecData([]byte{0, 0, 1, 0xb0})

	err := s.HandleInput(accessUnit(8))
	assert.True(t, decoder.IsFatal(err))
	assert.Equal(t, decoder.StateFailed, s.State())
	assert.Equal(t, 1, hw.MP4.Calls())
}

func TestPictureIDs(t *testing.T) {
	hw := codectest.NewHardware()
	hw.MP4 = &g1test.MP4Decoder{
		Info: info,
		Steps: []step{
			{Ret: g1.MP4HdrsRdy, Left: 50},
			{Ret: g1.MP4PicDecoded, Left: 20, Pictures: 1},
			{Ret: g1.MP4PicDecoded, Pictures: 1},
		},
	}
	s, c := codectest.OpenSession(t, hw, params(t), decoder.Options{})

	require.NoError(t, s.HandleInput(accessUnit(80)))

	require.Len(t, hw.MP4.Inputs, 3)
	assert.Equal(t, uint32(0), hw.MP4.Inputs[0].PicID)
	assert.Equal(t, uint32(0), hw.MP4.Inputs[1].PicID)
	assert.Equal(t, uint32(1), hw.MP4.Inputs[2].PicID)
	assert.Len(t, hw.MP4.Inputs[1].Stream, 50)
	assert.Len(t, hw.MP4.Inputs[2].Stream, 20)

	require.Len(t, c.Pictures, 2)
	assert.Equal(t, 176, c.Pictures[0].Width)
	assert.Equal(t, byte(2), c.Pictures[1].Data()[0])
}

func TestProcessedProbesHeaders(t *testing.T) {
	hw := codectest.NewHardware()
	hw.MP4 = &g1test.MP4Decoder{
		Info:  info,
		Steps: []step{{Ret: g1.MP4StrmProcessed, Left: 10}},
	}
	s, _ := codectest.OpenSession(t, hw, params(t), decoder.Options{})

	require.NoError(t, s.HandleInput(accessUnit(40)))
	assert.Equal(t, 1, hw.MP4.Calls())
	_, w, h := s.OutputFormat()
	assert.Equal(t, 176, w)
	assert.Equal(t, 144, h)
	assert.True(t, s.PP().InputKnown())
}

func TestProcessedWithoutHeaders(t *testing.T) {
	hw := codectest.NewHardware()
	s, _ := codectest.OpenSession(t, hw, params(t), decoder.Options{})

	require.NoError(t, s.HandleInput(accessUnit(40)))
	assert.False(t, s.PP().InputKnown())
	assert.Zero(t, s.Stats().StreamErrors)
}

func TestStreamErrorEndsLoop(t *testing.T) {
	for _, ret := range []g1.MP4Ret{
		g1.MP4NotInitialized,
		g1.MP4FormatNotSupported,
		g1.MP4StrmNotSupported,
		g1.MP4StrmError,
	} {
		ret := ret
		t.Run(ret.String(), func(t *testing.T) {
			hw := codectest.NewHardware()
			hw.MP4 = &g1test.MP4Decoder{Steps: []step{{Ret: ret, Left: 30}}}
			s, _ := codectest.OpenSession(t, hw, params(t), decoder.Options{})

			require.NoError(t, s.HandleInput(accessUnit(40)))
			assert.Equal(t, 1, hw.MP4.Calls())
			assert.Equal(t, 1, s.Stats().StreamErrors)
			assert.Equal(t, decoder.StateOpened, s.State())
		})
	}
}

func TestHardwareTimeoutFailsSession(t *testing.T) {
	hw := codectest.NewHardware()
	hw.MP4 = &g1test.MP4Decoder{Steps: []step{{Ret: g1.MP4HWTimeout}}}
	s, _ := codectest.OpenSession(t, hw, params(t), decoder.Options{})

	err := s.HandleInput(accessUnit(40))
	assert.True(t, errors.Is(err, g1.MP4HWTimeout))
	assert.Equal(t, decoder.KindFatal, decoder.KindOf(err))
	assert.Equal(t, decoder.StateFailed, s.State())
}

func TestSkipNonReference(t *testing.T) {
	hw := codectest.NewHardware()
	hw.MP4 = &g1test.MP4Decoder{Steps: []step{{Ret: g1.MP4NonrefPicSkipped, Left: 4}}}
	p := params(t)
	p.SkipNonReference = true
	s, _ := codectest.OpenSession(t, hw, p, decoder.Options{})

	require.NoError(t, s.HandleInput(accessUnit(16)))
	require.Len(t, hw.MP4.Inputs, 2)
	assert.True(t, hw.MP4.Inputs[0].SkipNonReference)
	assert.Len(t, hw.MP4.Inputs[1].Stream, 4)
}
