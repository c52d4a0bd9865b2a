package source

import (
	"errors"
	"io"
	"time"

	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/webrtc/v4/pkg/media/ivfreader"
)

// IVF reads frames from an IVF container.
type IVF struct {
	r      *ivfreader.IVFReader
	header *ivfreader.IVFFileHeader
	count  uint64
}

// NewIVF parses the IVF file header of r.
func NewIVF(r io.Reader) (*IVF, error) {
	ir, header, err := ivfreader.NewWith(r)
	if err != nil {
		return nil, err
	}
	logger.Debugf("ivf %s %dx%d, %d frames", header.FourCC, header.Width, header.Height, header.NumFrames)
	return &IVF{r: ir, header: header}, nil
}

// FourCC returns the codec tag of the file, such as "VP80".
func (v *IVF) FourCC() string {
	return v.header.FourCC
}

// Size returns the frame geometry stored in the file header.
func (v *IVF) Size() (int, int) {
	return int(v.header.Width), int(v.header.Height)
}

func (v *IVF) Read() (decoder.AccessUnit, error) {
	payload, _, err := v.r.ParseNextFrame()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return decoder.AccessUnit{}, io.EOF
		}
		return decoder.AccessUnit{}, err
	}

	// Frame n is presented at n * numerator / denominator seconds.
	var pts time.Duration
	if den := v.header.TimebaseDenominator; den != 0 {
		pts = time.Duration(v.count) * time.Second * time.Duration(v.header.TimebaseNumerator) / time.Duration(den)
	}
	v.count++

	return decoder.AccessUnit{Data: payload, PTS: pts}, nil
}
