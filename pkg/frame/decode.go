package frame

import (
	"fmt"
)

func NewDecoder(f Format) (Decoder, error) {
	var decoder decoderFunc

	switch f {
	case FormatNV12:
		decoder = decodeNV12
	case FormatNV16:
		decoder = decodeNV16
	case FormatI420:
		decoder = decodeI420
	case FormatYUY2:
		decoder = decodeYUY2
	case FormatYVYU:
		decoder = decodeYVYU
	case FormatUYVY:
		decoder = decodeUYVY
	case FormatGRAY8:
		decoder = decodeGRAY8
	case FormatRGBx:
		decoder = decodeRGBx
	case FormatBGRx:
		decoder = decodeBGRx
	case FormatRGB16:
		decoder = decodeRGB16
	case FormatBGR16:
		decoder = decodeBGR16
	case FormatRGB15:
		decoder = decodeRGB15
	case FormatBGR15:
		decoder = decodeBGR15
	default:
		return nil, fmt.Errorf("%s is not supported", f)
	}

	return decoder, nil
}
