package source

import (
	"errors"
	"io"
	"time"

	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/webrtc/v4/pkg/media/h264reader"
)

var startCode = []byte{0x00, 0x00, 0x00, 0x01}

// AnnexB reads an H.264 byte stream and groups its NAL units into access
// units. SEI NAL units are dropped.
type AnnexB struct {
	// FrameDuration spaces the timestamps of consecutive access units.
	FrameDuration time.Duration

	r       *h264reader.H264Reader
	pending *h264reader.NAL
	count   int
	eof     bool
}

// NewAnnexB returns a reader over the H.264 byte stream r.
func NewAnnexB(r io.Reader) (*AnnexB, error) {
	hr, err := h264reader.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &AnnexB{r: hr}, nil
}

// SetFrameDuration implements FrameDurationSetter.
func (a *AnnexB) SetFrameDuration(d time.Duration) {
	a.FrameDuration = d
}

func (a *AnnexB) next() (*h264reader.NAL, error) {
	if a.pending != nil {
		nal := a.pending
		a.pending = nil
		return nal, nil
	}
	if a.eof {
		return nil, io.EOF
	}
	nal, err := a.r.NextNAL()
	if err != nil {
		if errors.Is(err, io.EOF) {
			a.eof = true
		}
		return nil, err
	}
	return nal, nil
}

// Read returns the next access unit with every NAL unit prefixed by a four
// byte start code.
func (a *AnnexB) Read() (decoder.AccessUnit, error) {
	var (
		data []byte
		vcl  bool
	)
	for {
		nal, err := a.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return decoder.AccessUnit{}, err
		}
		if len(nal.Data) == 0 {
			continue
		}
		if vcl && startsAccessUnit(nal) {
			a.pending = nal
			break
		}
		data = append(data, startCode...)
		data = append(data, nal.Data...)
		if isVCL(nal.UnitType) {
			vcl = true
		}
	}

	if len(data) == 0 {
		return decoder.AccessUnit{}, io.EOF
	}

	au := decoder.AccessUnit{
		Data: data,
		PTS:  time.Duration(a.count) * a.FrameDuration,
	}
	a.count++
	return au, nil
}

func isVCL(t h264reader.NalUnitType) bool {
	return t >= h264reader.NalUnitTypeCodedSliceNonIdr && t <= h264reader.NalUnitTypeCodedSliceIdr
}

// startsAccessUnit reports whether nal opens a new access unit once the
// current one holds a coded slice.
func startsAccessUnit(nal *h264reader.NAL) bool {
	switch t := nal.UnitType; {
	case t == h264reader.NalUnitTypeSEI,
		t == h264reader.NalUnitTypeSPS,
		t == h264reader.NalUnitTypePPS,
		t == h264reader.NalUnitTypeAUD,
		t >= 14 && t <= 18:
		return true
	case t == h264reader.NalUnitTypeCodedSliceNonIdr,
		t == h264reader.NalUnitTypeCodedSliceIdr:
		// first_mb_in_slice is ue(v) coded, so zero is a single set bit.
		return len(nal.Data) > 1 && nal.Data[1]&0x80 != 0
	}
	return false
}
