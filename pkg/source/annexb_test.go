package source

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSPS = []byte{0x67, 0x42, 0xc0, 0x1e, 0xda, 0x05, 0x07, 0xe4}
	testPPS = []byte{0x68, 0xce, 0x3c, 0x80}
)

func annexB(nals ...[]byte) []byte {
	var b []byte
	for _, nal := range nals {
		b = append(b, startCode...)
		b = append(b, nal...)
	}
	return b
}

func readAll(t *testing.T, r Reader) [][]byte {
	t.Helper()

	var aus [][]byte
	for {
		au, err := r.Read()
		if errors.Is(err, io.EOF) {
			return aus
		}
		require.NoError(t, err)
		aus = append(aus, au.Data)
	}
}

func TestAnnexBAccessUnits(t *testing.T) {
	idr0 := []byte{0x65, 0x88, 0x84, 0x21}
	idr1 := []byte{0x65, 0x44, 0x12, 0x34}
	p0 := []byte{0x41, 0x9a, 0x02, 0x17}
	p1 := []byte{0x41, 0x9a, 0x03, 0x18}

	// The second IDR slice continues the first picture.
	stream := annexB(testSPS, testPPS, idr0, idr1, p0, testSPS, p1)

	r, err := NewAnnexB(bytes.NewReader(stream))
	require.NoError(t, err)

	aus := readAll(t, r)
	assert.Equal(t, [][]byte{
		annexB(testSPS, testPPS, idr0, idr1),
		annexB(p0),
		annexB(testSPS, p1),
	}, aus)
}

func TestAnnexBThreeByteStartCodes(t *testing.T) {
	stream := []byte{
		0x00, 0x00, 0x01, 0x65, 0x88, 0x84, 0x21,
		0x00, 0x00, 0x01, 0x41, 0x9a, 0x02, 0x17,
	}

	r, err := NewAnnexB(bytes.NewReader(stream))
	require.NoError(t, err)

	aus := readAll(t, r)
	assert.Equal(t, [][]byte{
		annexB([]byte{0x65, 0x88, 0x84, 0x21}),
		annexB([]byte{0x41, 0x9a, 0x02, 0x17}),
	}, aus)
}

func TestAnnexBTimestamps(t *testing.T) {
	stream := annexB(
		[]byte{0x65, 0x88, 0x84, 0x21},
		[]byte{0x41, 0x9a, 0x02, 0x17},
		[]byte{0x41, 0x9a, 0x03, 0x18},
	)

	r, err := NewAnnexB(bytes.NewReader(stream))
	require.NoError(t, err)
	r.FrameDuration = 40 * time.Millisecond

	for i := 0; i < 3; i++ {
		au, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(i)*40*time.Millisecond, au.PTS)
	}
	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestAnnexBEmpty(t *testing.T) {
	r, err := NewAnnexB(bytes.NewReader(nil))
	require.NoError(t, err)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestAnnexBNotByteStream(t *testing.T) {
	r, err := NewAnnexB(bytes.NewReader([]byte{0x12, 0x34, 0x56, 0x78, 0x9a}))
	require.NoError(t, err)

	_, err = r.Read()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}
