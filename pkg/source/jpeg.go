package source

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"

	"github.com/pion/hantro/pkg/decoder"
)

// JPEG delivers a whole JPEG file as a single access unit.
type JPEG struct {
	r    io.Reader
	done bool
}

// NewJPEG returns a reader over the JPEG image in r.
func NewJPEG(r io.Reader) *JPEG {
	return &JPEG{r: r}
}

func (j *JPEG) Read() (decoder.AccessUnit, error) {
	if j.done {
		return decoder.AccessUnit{}, io.EOF
	}
	j.done = true

	data, err := io.ReadAll(j.r)
	if err != nil {
		return decoder.AccessUnit{}, err
	}
	if len(data) == 0 {
		return decoder.AccessUnit{}, io.EOF
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return decoder.AccessUnit{}, fmt.Errorf("jpeg: %w", err)
	}
	logger.Debugf("jpeg %dx%d, %d bytes", cfg.Width, cfg.Height, len(data))

	return decoder.AccessUnit{Data: data}, nil
}
