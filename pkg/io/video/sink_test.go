package video

import (
	"image"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/hantro/pkg/codec/jpeg"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/g1/g1test"
)

func openJPEGSession(t *testing.T, sink decoder.Sink, opts decoder.Options) *decoder.Session {
	t.Helper()

	hw := g1test.New(1 << 22)
	hw.JPEG = &g1test.JPEGDecoder{Info: g1.JPEGImageInfo{
		DisplayWidth:  64,
		DisplayHeight: 32,
		OutputWidth:   64,
		OutputHeight:  32,
	}}

	p, err := jpeg.NewParams()
	require.NoError(t, err)
	a, err := p.BuildAdapter()
	require.NoError(t, err)

	s, err := decoder.NewSession(hw, a, sink, opts)
	require.NoError(t, err)
	require.NoError(t, s.Open())
	t.Cleanup(func() { s.Close() })
	return s
}

func jpegUnit() decoder.AccessUnit {
	return decoder.AccessUnit{Data: []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}}
}

func TestSinkReader(t *testing.T) {
	r := NewSinkReader(4)
	s := openJPEGSession(t, r, decoder.Options{})

	require.NoError(t, s.HandleInput(jpegUnit()))

	img, release, err := r.Read()
	require.NoError(t, err)
	defer release()

	ycbcr, ok := img.(*image.YCbCr)
	require.True(t, ok, "expected YCbCr, got %T", img)
	assert.Equal(t, image.Rect(0, 0, 64, 32), ycbcr.Rect)
	assert.Equal(t, image.YCbCrSubsampleRatio420, ycbcr.SubsampleRatio)
	assert.Equal(t, uint8(1), ycbcr.Y[0])
}

func TestSinkReaderConvertsOutputFormat(t *testing.T) {
	r := NewSinkReader(1)
	s := openJPEGSession(t, r, decoder.Options{Format: frame.FormatGRAY8})

	require.NoError(t, s.HandleInput(jpegUnit()))

	img, release, err := r.Read()
	require.NoError(t, err)
	defer release()

	gray, ok := img.(*image.Gray)
	require.True(t, ok, "expected Gray, got %T", img)
	assert.Equal(t, 64, gray.Rect.Dx())
	assert.Equal(t, 32, gray.Rect.Dy())
}

func TestSinkReaderDropsOldest(t *testing.T) {
	r := NewSinkReader(2)
	s := openJPEGSession(t, r, decoder.Options{})

	for i := 0; i < 3; i++ {
		au := jpegUnit()
		au.PTS = time.Duration(i) * time.Second
		require.NoError(t, s.HandleInput(au))
	}
	assert.Equal(t, 1, r.Dropped())
	require.NoError(t, r.Close())

	for i := 0; i < 2; i++ {
		_, release, err := r.Read()
		require.NoError(t, err)
		release()
	}

	_, _, err := r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSinkReaderCloseUnblocksRead(t *testing.T) {
	r := NewSinkReader(1)

	done := make(chan error)
	go func() {
		_, _, err := r.Read()
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, r.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, io.EOF)
	case <-time.After(time.Second):
		t.Fatal("Read did not return after Close")
	}
}

func TestSinkReaderPushAfterClose(t *testing.T) {
	r := NewSinkReader(1)
	s := openJPEGSession(t, r, decoder.Options{})
	require.NoError(t, r.Close())

	err := s.HandleInput(jpegUnit())
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
