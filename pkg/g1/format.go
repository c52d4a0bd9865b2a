package g1

import (
	"errors"
	"fmt"

	"github.com/pion/hantro/pkg/frame"
)

// ErrUnsupportedFormat is returned for formats the hardware can't handle.
var ErrUnsupportedFormat = errors.New("g1: unsupported format")

// The post-processor names RGB formats by component order in a 32 bit word,
// frames name them by byte order in memory, hence the swap on 32 bit RGB.
var ppFormats = map[frame.Format]PixelFormat{
	frame.FormatNV12:  PixFmtYCbCr420Semiplanar,
	frame.FormatNV16:  PixFmtYCbCr422Semiplanar,
	frame.FormatI420:  PixFmtYCbCr420Planar,
	frame.FormatYUY2:  PixFmtYCbCr422Interleaved,
	frame.FormatYVYU:  PixFmtYCrYCb422Interleaved,
	frame.FormatUYVY:  PixFmtCbYCrY422Interleaved,
	frame.FormatGRAY8: PixFmtYCbCr400,
	frame.FormatRGBx:  PixFmtBGR32,
	frame.FormatBGRx:  PixFmtRGB32,
	frame.FormatRGB15: PixFmtRGB16_555,
	frame.FormatBGR15: PixFmtBGR16_555,
	frame.FormatRGB16: PixFmtRGB16_565,
	frame.FormatBGR16: PixFmtBGR16_565,
}

// PixelFormatOf returns the post-processor code for a frame format.
func PixelFormatOf(f frame.Format) (PixelFormat, error) {
	p, ok := ppFormats[f]
	if !ok {
		return PixFmtUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return p, nil
}

// FrameFormatOf returns the frame format matching a post-processor code.
func FrameFormatOf(p PixelFormat) (frame.Format, error) {
	for f, code := range ppFormats {
		if code == p {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, p)
}

// DecoderFormatOf returns the frame format of a codec's native output.
// Tiled output can only be consumed by the post-processor.
func DecoderFormatOf(f OutputFormat) (frame.Format, error) {
	switch f {
	case OutputSemiplanar420:
		return frame.FormatNV12, nil
	case OutputYUV400:
		return frame.FormatGRAY8, nil
	default:
		return "", fmt.Errorf("%w: decoder output %s", ErrUnsupportedFormat, f)
	}
}
