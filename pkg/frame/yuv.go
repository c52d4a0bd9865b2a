package frame

import (
	"fmt"
	"image"
)

func decodeI420(frame []byte, width, height int) (image.Image, func(), error) {
	yi := width * height
	cbi := yi + width*height/4
	cri := cbi + width*height/4

	if cri > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), cri)
	}

	return &image.YCbCr{
		Y:              frame[:yi],
		YStride:        width,
		Cb:             frame[yi:cbi],
		Cr:             frame[cbi:cri],
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}, func() {}, nil
}

func decodeNV12(frame []byte, width, height int) (image.Image, func(), error) {
	return decodeSemiplanar(frame, width, height, image.YCbCrSubsampleRatio420)
}

func decodeNV16(frame []byte, width, height int) (image.Image, func(), error) {
	return decodeSemiplanar(frame, width, height, image.YCbCrSubsampleRatio422)
}

// decodeSemiplanar splits the interleaved CbCr plane into separate planes.
func decodeSemiplanar(frame []byte, width, height int, ratio image.YCbCrSubsampleRatio) (image.Image, func(), error) {
	yi := width * height
	ci := yi + width*height/2
	if ratio == image.YCbCrSubsampleRatio422 {
		ci = 2 * yi
	}

	if ci > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), ci)
	}

	n := (ci - yi) / 2
	cb := make([]byte, n)
	cr := make([]byte, n)
	for i, j := yi, 0; i < ci; i, j = i+2, j+1 {
		cb[j] = frame[i]
		cr[j] = frame[i+1]
	}

	return &image.YCbCr{
		Y:              frame[:yi],
		YStride:        width,
		Cb:             cb,
		Cr:             cr,
		CStride:        width / 2,
		SubsampleRatio: ratio,
		Rect:           image.Rect(0, 0, width, height),
	}, func() {}, nil
}

func decodeYUY2(frame []byte, width, height int) (image.Image, func(), error) {
	return decodePacked422(frame, width, height, 0, 1, 2, 3)
}

func decodeYVYU(frame []byte, width, height int) (image.Image, func(), error) {
	return decodePacked422(frame, width, height, 0, 3, 2, 1)
}

func decodeUYVY(frame []byte, width, height int) (image.Image, func(), error) {
	return decodePacked422(frame, width, height, 1, 0, 3, 2)
}

// decodePacked422 unpacks a 4:2:2 macropixel layout. y0, cb, y1 and cr are
// the byte positions inside each 4 byte macropixel.
func decodePacked422(frame []byte, width, height int, y0, cb, y1, cr int) (image.Image, func(), error) {
	yi := width * height
	ci := yi / 2
	fi := yi + 2*ci

	if len(frame) < fi {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), fi)
	}

	y := make([]byte, yi)
	cbs := make([]byte, ci)
	crs := make([]byte, ci)

	fast := 0
	slow := 0
	for i := 0; i < fi; i += 4 {
		y[fast] = frame[i+y0]
		cbs[slow] = frame[i+cb]
		y[fast+1] = frame[i+y1]
		crs[slow] = frame[i+cr]
		fast += 2
		slow++
	}

	return &image.YCbCr{
		Y:              y,
		YStride:        width,
		Cb:             cbs,
		Cr:             crs,
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio422,
		Rect:           image.Rect(0, 0, width, height),
	}, func() {}, nil
}

func decodeGRAY8(frame []byte, width, height int) (image.Image, func(), error) {
	size := width * height
	if size > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), size)
	}

	return &image.Gray{
		Pix:    frame[:size:size],
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}, func() {}, nil
}
