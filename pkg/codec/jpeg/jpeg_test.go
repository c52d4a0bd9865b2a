package jpeg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/hantro/pkg/codec"
	"github.com/pion/hantro/pkg/codec/internal/codectest"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/g1/g1test"
)

type step = g1test.Step[g1.JPEGRet]

var info = g1.JPEGImageInfo{
	DisplayWidth:      800,
	DisplayHeight:     600,
	OutputWidth:       800,
	OutputHeight:      608,
	ThumbnailType:     g1.JPEGThumbnailJPEG,
	OutputWidthThumb:  160,
	OutputHeightThumb: 128,
}

func params(t *testing.T) *Params {
	t.Helper()

	p, err := NewParams()
	require.NoError(t, err)
	return &p
}

func image(n int) decoder.AccessUnit {
	data := make([]byte, n)
	copy(data, []byte{0xff, 0xd8, 0xff, 0xe0})
	return decoder.AccessUnit{Data: data}
}

func TestShouldImplementBuilder(t *testing.T) {
	var _ codec.Builder = &Params{}
}

func TestRegistered(t *testing.T) {
	for _, file := range []string{"a.jpg", "b.JPEG"} {
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
		hw.JPEG = &g1test.JPEGDecoder{Info: info, Steps: []step{{Ret: g1.JPEGRet(42)}}}
	})
}

func TestDecodeImage(t *testing.T) {
	hw := codectest.NewHardware()
	hw.JPEG = &g1test.JPEGDecoder{
		Info: info,
		Steps: []step{
			{Ret: g1.JPEGSliceReady},
			{Ret: g1.JPEGScanProcessed},
			{Ret: g1.JPEGFrameReady},
		},
	}
	s, c := codectest.OpenSession(t, hw, params(t), decoder.Options{})

	require.NoError(t, s.HandleInput(image(256)))

	assert.Equal(t, 3, hw.JPEG.Calls())
	assert.Equal(t, g1.JPEGImage, hw.JPEG.Inputs[0].DecImageType)
	require.Len(t, c.Pictures, 1)
	pic := c.Pictures[0]
	assert.Equal(t, frame.FormatNV12, pic.Format)
	assert.Equal(t, 800, pic.Width)
	assert.Equal(t, 608, pic.Height)
	assert.True(t, pic.Key)
	assert.Equal(t, byte(1), pic.Data()[0])
	assert.Equal(t, g1.DecTypeJPEG, hw.PP.DecType)
}

func TestPreferThumbnail(t *testing.T) {
	testCases := map[string]struct {
		prefer        bool
		thumbnail     g1.JPEGThumbnailType
		imageType     g1.JPEGImageType
		width, height int
	}{
		"Image":            {false, g1.JPEGThumbnailJPEG, g1.JPEGImage, 800, 608},
		"Thumbnail":        {true, g1.JPEGThumbnailJPEG, g1.JPEGThumbnail, 160, 128},
		"NoThumbnail":      {true, g1.JPEGNoThumbnail, g1.JPEGImage, 800, 608},
		"ThumbnailNotJPEG": {true, g1.JPEGThumbnailNotSupported, g1.JPEGImage, 800, 608},
	}
	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			hw := codectest.NewHardware()
			i := info
			i.ThumbnailType = testCase.thumbnail
			hw.JPEG = &g1test.JPEGDecoder{Info: i}
			p := params(t)
			p.PreferThumbnail = testCase.prefer
			s, c := codectest.OpenSession(t, hw, p, decoder.Options{})

			require.NoError(t, s.HandleInput(image(128)))
			require.Len(t, hw.JPEG.Inputs, 1)
			assert.Equal(t, testCase.imageType, hw.JPEG.Inputs[0].DecImageType)
			require.Len(t, c.Pictures, 1)
			assert.Equal(t, testCase.width, c.Pictures[0].Width)
			assert.Equal(t, testCase.height, c.Pictures[0].Height)
		})
	}
}

func TestScaledOutput(t *testing.T) {
	hw := codectest.NewHardware()
	hw.JPEG = &g1test.JPEGDecoder{Info: info}
	s, c := codectest.OpenSession(t, hw, params(t), decoder.Options{
		Format: frame.FormatRGBx,
		Width:  320,
		Height: 240,
	})

	require.NoError(t, s.HandleInput(image(128)))
	require.Len(t, c.Pictures, 1)
	assert.Equal(t, 320, c.Pictures[0].Width)
	assert.Len(t, c.Pictures[0].Data(), 320*240*4)

	cfg, ok := hw.PP.Last()
	require.True(t, ok)
	assert.Equal(t, 800, cfg.InImg.Width)
	assert.Equal(t, 608, cfg.InImg.Height)
}

func TestImageInfoFailure(t *testing.T) {
	hw := codectest.NewHardware()
	hw.JPEG = &g1test.JPEGDecoder{InfoRet: g1.JPEGUnsupported}
	s, c := codectest.OpenSession(t, hw, params(t), decoder.Options{})

	err := s.HandleInput(image(64))
	assert.True(t, errors.Is(err, g1.JPEGUnsupported))
	assert.Equal(t, decoder.KindStream, decoder.KindOf(err))
	assert.Equal(t, decoder.StateOpened, s.State())
	assert.Zero(t, hw.JPEG.Calls())
	assert.Empty(t, c.Pictures)
}

func TestStreamErrorEndsLoop(t *testing.T) {
	for _, ret := range []g1.JPEGRet{
		g1.JPEGError,
		g1.JPEGStrmError,
		g1.JPEGInvalidStreamLength,
		g1.JPEGIncreaseInputBuffer,
	} {
		ret := ret
		t.Run(ret.String(), func(t *testing.T) {
			hw := codectest.NewHardware()
			hw.JPEG = &g1test.JPEGDecoder{Info: info, Steps: []step{{Ret: ret}}}
			s, c := codectest.OpenSession(t, hw, params(t), decoder.Options{})

			require.NoError(t, s.HandleInput(image(64)))
			assert.Equal(t, 1, hw.JPEG.Calls())
			assert.Equal(t, 1, s.Stats().StreamErrors)
			assert.Empty(t, c.Pictures)
		})
	}
}

func TestTimeoutFailsSession(t *testing.T) {
	hw := codectest.NewHardware()
	hw.JPEG = &g1test.JPEGDecoder{Info: info, Steps: []step{{Ret: g1.JPEGDWLHWTimeout}}}
	s, _ := codectest.OpenSession(t, hw, params(t), decoder.Options{})

	err := s.HandleInput(image(64))
	assert.True(t, decoder.IsFatal(err))
	assert.Equal(t, decoder.StateFailed, s.State())
}
