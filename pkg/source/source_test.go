package source

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/hantro/pkg/decoder"
)

func jpegImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 32, 16))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	img.SetGray(0, 0, color.Gray{Y: 255})

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestJPEG(t *testing.T) {
	data := jpegImage(t)
	r := NewJPEG(bytes.NewReader(data))

	au, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, data, au.Data)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestJPEGInvalid(t *testing.T) {
	r := NewJPEG(bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}))

	_, err := r.Read()
	assert.Error(t, err)
}

func TestJPEGEmpty(t *testing.T) {
	r := NewJPEG(bytes.NewReader(nil))

	_, err := r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestOpen(t *testing.T) {
	idr := []byte{0x65, 0x88, 0x84, 0x21}

	testCases := map[string]struct {
		name string
		data []byte
		want []byte
	}{
		"AnnexB": {
			name: "clip.H264",
			data: annexB(idr),
			want: annexB(idr),
		},
		"IVF": {
			name: "clip.ivf",
			data: ivfFile(30, 1, []byte{0x10, 0x02, 0x00}),
			want: []byte{0x10, 0x02, 0x00},
		},
		"H263": {
			name: "clip.263",
			data: []byte{0x00, 0x00, 0x80, 0x02, 0x0a},
			want: []byte{0x00, 0x00, 0x80, 0x02, 0x0a},
		},
		"JPEG": {
			name: "still.jpg",
			data: jpegImage(t),
			want: jpegImage(t),
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			r, err := Open(writeFile(t, testCase.name, testCase.data))
			require.NoError(t, err)
			defer r.Close()

			au, err := r.Read()
			require.NoError(t, err)
			assert.Equal(t, testCase.want, au.Data)
			assert.Nil(t, CodecData(r))
		})
	}
}

func TestOpenUnknownContainer(t *testing.T) {
	_, err := Open(writeFile(t, "clip.mkv", []byte{0x1a, 0x45, 0xdf, 0xa3}))
	assert.ErrorIs(t, err, ErrUnknownContainer)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.h264"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReaderFunc(t *testing.T) {
	var r Reader = ReaderFunc(func() (decoder.AccessUnit, error) {
		return decoder.AccessUnit{Data: []byte{1}}, nil
	})

	au, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, au.Data)
	assert.Nil(t, CodecData(r))
}

func TestSetFrameRate(t *testing.T) {
	idr := []byte{0x65, 0x88, 0x84, 0x21}
	p0 := []byte{0x41, 0x9a, 0x02, 0x17}

	r, err := Open(writeFile(t, "clip.h264", annexB(idr, p0)))
	require.NoError(t, err)
	defer r.Close()

	assert.True(t, SetFrameRate(r, 25))

	for _, want := range []time.Duration{0, 40 * time.Millisecond} {
		au, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, want, au.PTS)
	}

	ivf, err := Open(writeFile(t, "clip.ivf", ivfFile(30, 1, []byte{0x10})))
	require.NoError(t, err)
	defer ivf.Close()
	assert.False(t, SetFrameRate(ivf, 25))
	assert.False(t, SetFrameRate(NewMPEG4(bytes.NewReader(nil)), 0))
}
