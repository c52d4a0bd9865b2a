package frame

type Format string

const (
	// YUV Formats

	// FormatNV12 https://www.fourcc.org/pixel-format/yuv-nv12/
	FormatNV12 Format = "NV12"
	// FormatNV16 is NV12 without vertical chroma sub-sampling
	FormatNV16 Format = "NV16"
	// FormatI420 https://www.fourcc.org/pixel-format/yuv-i420/
	FormatI420 Format = "I420"
	// FormatYUY2 https://www.fourcc.org/pixel-format/yuv-yuy2/
	FormatYUY2 Format = "YUY2"
	// FormatYVYU https://www.fourcc.org/pixel-format/yuv-yvyu/
	FormatYVYU Format = "YVYU"
	// FormatUYVY https://www.fourcc.org/pixel-format/yuv-uyvy/
	FormatUYVY Format = "UYVY"
	// FormatGRAY8 carries luma only
	FormatGRAY8 Format = "GRAY8"

	// RGB Formats

	// FormatRGBx is 32 bits per pixel, R first in memory, padding last
	FormatRGBx Format = "RGBx"
	// FormatBGRx is 32 bits per pixel, B first in memory, padding last
	FormatBGRx Format = "BGRx"
	// FormatRGB16 is little endian 5:6:5 with red in the high bits
	FormatRGB16 Format = "RGB16"
	// FormatBGR16 is little endian 5:6:5 with blue in the high bits
	FormatBGR16 Format = "BGR16"
	// FormatRGB15 is little endian x:5:5:5 with red in the high bits
	FormatRGB15 Format = "RGB15"
	// FormatBGR15 is little endian x:5:5:5 with blue in the high bits
	FormatBGR15 Format = "BGR15"
)

// YUV aliases

// FormatYUYV is an alias of FormatYUY2
const FormatYUYV = FormatYUY2

// Formats lists every raw format the post-processor can produce.
func Formats() []Format {
	return []Format{
		FormatNV12, FormatNV16, FormatI420,
		FormatYUY2, FormatYVYU, FormatUYVY, FormatGRAY8,
		FormatRGBx, FormatBGRx,
		FormatRGB16, FormatBGR16, FormatRGB15, FormatBGR15,
	}
}
