package jpeg

import (
	"github.com/pion/hantro/pkg/decoder"
)

// Params stores G1 JPEG specific decoding parameters.
type Params struct {
	// PreferThumbnail decodes the embedded thumbnail instead of the full
	// image when the file carries a JPEG thumbnail.
	PreferThumbnail bool
}

// NewParams returns default G1 JPEG parameters.
func NewParams() (Params, error) {
	return Params{}, nil
}

// BuildAdapter builds a JPEG adapter with the receiver's parameters.
func (p *Params) BuildAdapter() (decoder.Adapter, error) {
	return &Adapter{params: *p}, nil
}
