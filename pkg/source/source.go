// Package source splits encoded bitstreams into the access units a
// decoder.Session consumes.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pion/hantro/internal/logging"
	"github.com/pion/hantro/pkg/decoder"
)

var logger = logging.NewLogger("hantro/source")

var (
	// ErrUnknownContainer is returned by Open for an unrecognised file extension.
	ErrUnknownContainer = errors.New("unknown container")
	// ErrNoVideoTrack is returned when a container holds no decodable video track.
	ErrNoVideoTrack = errors.New("no video track found")
)

// Reader returns access units in decode order. It returns io.EOF once the
// bitstream is exhausted.
type Reader interface {
	Read() (decoder.AccessUnit, error)
}

// CodecDataReader is implemented by readers that carry out of band codec
// data, such as parameter sets stored in a container header.
type CodecDataReader interface {
	Reader
	CodecData() []byte
}

// ReadCloser is a Reader that owns the stream it reads from.
type ReadCloser interface {
	Reader
	io.Closer
}

// FrameDurationSetter is implemented by readers of raw streams, which carry
// no timestamps of their own.
type FrameDurationSetter interface {
	SetFrameDuration(d time.Duration)
}

// ReaderFunc is a proxy type for Reader.
type ReaderFunc func() (decoder.AccessUnit, error)

func (f ReaderFunc) Read() (decoder.AccessUnit, error) {
	return f()
}

// CodecData returns the codec data of r, or nil if r carries none.
func CodecData(r Reader) []byte {
	if cr, ok := r.(CodecDataReader); ok {
		return cr.CodecData()
	}
	return nil
}

// SetFrameRate spaces the timestamps of r at rate pictures per second. It
// reports false when r takes its timestamps from the container.
func SetFrameRate(r Reader, rate float64) bool {
	if fr, ok := r.(*fileReader); ok {
		r = fr.Reader
	}
	fs, ok := r.(FrameDurationSetter)
	if !ok || rate <= 0 {
		return false
	}
	fs.SetFrameDuration(time.Duration(float64(time.Second) / rate))
	return true
}

type fileReader struct {
	Reader
	f *os.File
}

func (r *fileReader) CodecData() []byte {
	return CodecData(r.Reader)
}

func (r *fileReader) Close() error {
	return r.f.Close()
}

// Open opens path and picks a reader from its extension.
func Open(path string) (ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var r Reader
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".h264", ".264", ".avc":
		r, err = NewAnnexB(f)
	case ".m4v", ".cmp":
		r = NewMPEG4(f)
	case ".263":
		r = NewH263(f)
	case ".ivf":
		r, err = NewIVF(f)
	case ".mp4", ".mov":
		r, err = NewMP4(f)
	case ".jpg", ".jpeg":
		r = NewJPEG(f)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownContainer, ext)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	return &fileReader{Reader: r, f: f}, nil
}
