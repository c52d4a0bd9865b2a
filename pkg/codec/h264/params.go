package h264

import (
	"github.com/pion/hantro/pkg/decoder"
)

// Params stores G1 H.264 specific decoding parameters. Everything but
// SkipNonReference takes effect on the next Open.
type Params struct {
	// SkipNonReference skips non-reference pictures to save processing time.
	SkipNonReference bool
	// DisableOutputReordering outputs pictures in decoding order.
	DisableOutputReordering bool
	// IntraFreezeConcealment freezes the output until the next intra picture
	// after an error.
	IntraFreezeConcealment bool
	// UseDisplaySmoothing allows the decoder to output pictures early to
	// smooth the display rate.
	UseDisplaySmoothing bool
}

// NewParams returns default G1 H.264 parameters.
func NewParams() (Params, error) {
	return Params{}, nil
}

// BuildAdapter builds an H.264 adapter with the receiver's parameters.
func (p *Params) BuildAdapter() (decoder.Adapter, error) {
	return newAdapter(*p), nil
}
