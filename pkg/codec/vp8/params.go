package vp8

import (
	"fmt"

	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/g1"
)

// Frame buffer bounds accepted by the decoder.
const (
	MinFrameBuffers     = 2
	MaxFrameBuffers     = 16
	DefaultFrameBuffers = 6
)

// Params stores G1 VP8 specific decoding parameters. They take effect on
// the next Open.
type Params struct {
	Format g1.VP8Format
	// VideoFreezeConcealment conceals every picture after a stream error
	// until the next key frame.
	VideoFreezeConcealment bool
	NumFrameBuffers        int
}

// NewParams returns default G1 VP8 parameters.
func NewParams() (Params, error) {
	return Params{
		Format:          g1.VP8FormatVP8,
		NumFrameBuffers: DefaultFrameBuffers,
	}, nil
}

// Validate checks the parameters against the decoder limits.
func (p *Params) Validate() error {
	switch p.Format {
	case g1.VP8FormatVP7, g1.VP8FormatVP8, g1.VP8FormatWebP:
	default:
		return fmt.Errorf("vp8: unknown format %d", p.Format)
	}
	if p.NumFrameBuffers < MinFrameBuffers || p.NumFrameBuffers > MaxFrameBuffers {
		return fmt.Errorf("vp8: frame buffers must be in [%d, %d], got %d",
			MinFrameBuffers, MaxFrameBuffers, p.NumFrameBuffers)
	}
	return nil
}

// BuildAdapter builds a VP8 adapter with the receiver's parameters.
func (p *Params) BuildAdapter() (decoder.Adapter, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{params: *p}, nil
}
