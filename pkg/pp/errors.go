package pp

import "errors"

var (
	// ErrOutOfRange is returned when a control value is outside its range.
	ErrOutOfRange = errors.New("pp: value out of range")
	// ErrCropTooSmall is returned when a crop rectangle is smaller than a
	// third of the output.
	ErrCropTooSmall = errors.New("pp: crop too small for the output size")
	// ErrCropOutOfBounds is returned when a crop rectangle leaves the input.
	ErrCropOutOfBounds = errors.New("pp: crop outside of the input picture")
	// ErrMaskSize is returned when a mask file doesn't hold width*height*4 bytes.
	ErrMaskSize = errors.New("pp: mask file size doesn't match its geometry")
)
