package mpeg4

import (
	"fmt"

	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/g1"
)

// Frame buffer bounds accepted by the decoder.
const (
	MinFrameBuffers     = 3
	MaxFrameBuffers     = 16
	DefaultFrameBuffers = 4
)

// Params stores G1 MPEG-4 Part 2 specific decoding parameters.
type Params struct {
	StreamFormat g1.MP4StreamFormat
	// VideoFreezeConcealment conceals every picture after a stream error
	// until the next key picture.
	VideoFreezeConcealment bool
	// NumFrameBuffers is the number of reference buffers the decoder
	// allocates.
	NumFrameBuffers int
	// SkipNonReference skips non-reference pictures.
	SkipNonReference bool
}

// NewParams returns default G1 MPEG-4 parameters.
func NewParams() (Params, error) {
	return Params{
		StreamFormat:    g1.MP4StreamMPEG4,
		NumFrameBuffers: DefaultFrameBuffers,
	}, nil
}

// Validate checks the parameters against the decoder limits.
func (p *Params) Validate() error {
	if p.NumFrameBuffers < MinFrameBuffers || p.NumFrameBuffers > MaxFrameBuffers {
		return fmt.Errorf("mpeg4: frame buffers must be in [%d, %d], got %d",
			MinFrameBuffers, MaxFrameBuffers, p.NumFrameBuffers)
	}
	return nil
}

// BuildAdapter builds an MPEG-4 adapter with the receiver's parameters.
func (p *Params) BuildAdapter() (decoder.Adapter, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return newAdapter(*p), nil
}
