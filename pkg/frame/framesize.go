package frame

import "fmt"

// Return a function to get the number of bytes a frame will occupy in the given format
var FrameSizeMap = map[Format]frameSizeFunc{
	FormatNV12:  frameSize420,
	FormatI420:  frameSize420,
	FormatNV16:  frameSize2BPP,
	FormatYUY2:  frameSize2BPP,
	FormatYVYU:  frameSize2BPP,
	FormatUYVY:  frameSize2BPP,
	FormatRGB16: frameSize2BPP,
	FormatBGR16: frameSize2BPP,
	FormatRGB15: frameSize2BPP,
	FormatBGR15: frameSize2BPP,
	FormatRGBx:  frameSize4BPP,
	FormatBGRx:  frameSize4BPP,
	FormatGRAY8: frameSizeGRAY8,
}

type frameSizeFunc func(width, height int) uint

// Size returns the number of bytes a frame of the given geometry occupies.
func Size(f Format, width, height int) (uint, error) {
	fn, ok := FrameSizeMap[f]
	if !ok {
		return 0, fmt.Errorf("%s is not supported", f)
	}
	return fn(width, height), nil
}

// PlaneOffsets returns the byte offset of every plane of a tightly packed
// frame. Packed formats have a single plane at offset 0.
func PlaneOffsets(f Format, width, height int) []int {
	yi := width * height
	switch f {
	case FormatNV12, FormatNV16:
		return []int{0, yi}
	case FormatI420:
		return []int{0, yi, yi + yi/4}
	default:
		return []int{0}
	}
}

func frameSize420(width, height int) uint {
	yi := width * height
	ci := yi + width*height/2
	return uint(ci)
}

func frameSize2BPP(width, height int) uint {
	return uint(2 * width * height)
}

func frameSize4BPP(width, height int) uint {
	return uint(4 * width * height)
}

func frameSizeGRAY8(width, height int) uint {
	return uint(width * height)
}
