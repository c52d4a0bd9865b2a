package frame

import (
	"encoding/binary"
	"fmt"
	"image"
)

// The post-processor writes into hardware memory which may be reused as soon
// as the picture is released, so RGB frames are always copied out.

func decodeRGBx(frame []byte, width, height int) (image.Image, func(), error) {
	return decode32(frame, width, height, 0, 1, 2)
}

func decodeBGRx(frame []byte, width, height int) (image.Image, func(), error) {
	return decode32(frame, width, height, 2, 1, 0)
}

func decode32(frame []byte, width, height int, r, g, b int) (image.Image, func(), error) {
	size := 4 * width * height
	if size > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), size)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < size; i += 4 {
		img.Pix[i] = frame[i+r]
		img.Pix[i+1] = frame[i+g]
		img.Pix[i+2] = frame[i+b]
		img.Pix[i+3] = 0xFF
	}
	return img, func() {}, nil
}

func decodeRGB16(frame []byte, width, height int) (image.Image, func(), error) {
	return decode16(frame, width, height, 11, 5, 0, 6, false)
}

func decodeBGR16(frame []byte, width, height int) (image.Image, func(), error) {
	return decode16(frame, width, height, 11, 5, 0, 6, true)
}

func decodeRGB15(frame []byte, width, height int) (image.Image, func(), error) {
	return decode16(frame, width, height, 10, 5, 0, 5, false)
}

func decodeBGR15(frame []byte, width, height int) (image.Image, func(), error) {
	return decode16(frame, width, height, 10, 5, 0, 5, true)
}

// decode16 expands little endian 16 bit pixels. hi and lo are the shifts of
// the outer components, mid the shift of green and gbits its width.
func decode16(frame []byte, width, height int, hi, mid, lo, gbits int, swap bool) (image.Image, func(), error) {
	size := 2 * width * height
	if size > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), size)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gmask := uint16(1)<<gbits - 1
	for i, j := 0, 0; i < size; i, j = i+2, j+4 {
		v := binary.LittleEndian.Uint16(frame[i:])
		r := expand(v>>hi&0x1F, 5)
		g := expand(v>>mid&gmask, gbits)
		b := expand(v>>lo&0x1F, 5)
		if swap {
			r, b = b, r
		}
		img.Pix[j] = r
		img.Pix[j+1] = g
		img.Pix[j+2] = b
		img.Pix[j+3] = 0xFF
	}
	return img, func() {}, nil
}

// expand scales an n bit component to 8 bits by replicating its high bits.
func expand(v uint16, n int) uint8 {
	return uint8(v<<(8-n) | v>>(2*n-8))
}
