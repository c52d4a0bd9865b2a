package source

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func TestMPEG4AccessUnits(t *testing.T) {
	vos := []byte{0x00, 0x00, 0x01, 0xb0, 0x01}
	vo := []byte{0x00, 0x00, 0x01, 0xb5, 0x09}
	vol := []byte{0x00, 0x00, 0x01, 0x20, 0x08, 0xc8, 0x0d}
	vop0 := []byte{0x00, 0x00, 0x01, 0xb6, 0x10, 0x60, 0x2a}
	user := []byte{0x00, 0x00, 0x01, 0xb2, 0x44, 0x69, 0x76}
	vop1 := []byte{0x00, 0x00, 0x01, 0xb6, 0x50, 0x61, 0x2b}
	end := []byte{0x00, 0x00, 0x01, 0xb1}

	garbage := []byte{0xff, 0xfe}
	stream := concat(garbage, vos, vo, vol, vop0, user, vop1, end)

	testCases := map[string]io.Reader{
		"Whole":   bytes.NewReader(stream),
		"OneByte": iotest.OneByteReader(bytes.NewReader(stream)),
	}

	for name, in := range testCases {
		in := in
		t.Run(name, func(t *testing.T) {
			aus := readAll(t, NewMPEG4(in))
			assert.Equal(t, [][]byte{
				concat(vos, vo, vol, vop0, user),
				concat(vop1, end),
			}, aus)
		})
	}
}

func TestMPEG4NewSequence(t *testing.T) {
	vol := []byte{0x00, 0x00, 0x01, 0x20, 0x08, 0xc8, 0x0d}
	vop := []byte{0x00, 0x00, 0x01, 0xb6, 0x10, 0x60, 0x2a}

	aus := readAll(t, NewMPEG4(bytes.NewReader(concat(vol, vop, vol, vop))))
	assert.Equal(t, [][]byte{concat(vol, vop), concat(vol, vop)}, aus)
}

func TestH263Pictures(t *testing.T) {
	pic0 := []byte{0x00, 0x00, 0x80, 0x02, 0x0a, 0x11, 0x22}
	pic1 := []byte{0x00, 0x00, 0x82, 0x06, 0x0a, 0x33, 0x44}

	aus := readAll(t, NewH263(bytes.NewReader(concat(pic0, pic1))))
	assert.Equal(t, [][]byte{pic0, pic1}, aus)
}

func TestElementaryWithoutStartCode(t *testing.T) {
	r := NewMPEG4(strings.NewReader("not a bitstream"))

	_, err := r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestElementaryReadError(t *testing.T) {
	r := NewMPEG4(iotest.ErrReader(io.ErrUnexpectedEOF))

	_, err := r.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
