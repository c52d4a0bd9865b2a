// Package decoder drives a G1 codec instance pipelined with the
// post-processor.
//
// A Session owns one codec instance, one post-processor and the pp.State
// configuring it. Access units enter through HandleInput, are copied into
// hardware addressable memory when needed and are handed to the session's
// Adapter, which runs the codec specific decode loop through Run. Finished
// pictures leave through a Sink.
package decoder

import (
	"sync"
	"time"

	"github.com/pion/hantro/internal/logging"
	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/memalloc"
)

var logger = logging.NewLogger("hantro/decoder")

// CodecKind tags the codec a session drives.
type CodecKind = g1.DecType

// AccessUnit is one unit of encoded bitstream: a NAL unit sequence, a
// frame or an image.
type AccessUnit struct {
	// Data holds the bitstream when Memory is nil.
	Data []byte
	// Memory backs the access unit. Contiguous memory is decoded in place.
	Memory *memalloc.Memory
	PTS    time.Duration
	// Release, if set, is called once the session is done with the access unit.
	Release func()
}

func (au *AccessUnit) bytes() []byte {
	if au.Memory != nil {
		return au.Memory.Map()
	}
	return au.Data
}

func (au *AccessUnit) release() {
	if au.Release != nil {
		au.Release()
	}
}

// Input is an access unit in hardware addressable memory.
type Input struct {
	Stream     []byte
	BusAddress uint32
	PTS        time.Duration
}

// Adapter is the codec specific part of a session.
type Adapter interface {
	// Kind returns the codec type used to pipeline the post-processor.
	Kind() CodecKind
	// Open creates the hardware codec instance.
	Open(hw g1.Hardware) (g1.Codec, error)
	// Close releases the instance created by Open. Closing twice is a no-op.
	Close() error
	// Decode runs the decode loop over one input, usually through Session.Run.
	Decode(s *Session, in Input) error
}

// HeaderDecoder is implemented by adapters that parse out of band codec
// data before the first access unit.
type HeaderDecoder interface {
	DecodeHeader(s *Session, in Input) error
}

// StreamInfo is the geometry read from parsed stream headers.
type StreamInfo struct {
	Format        frame.Format
	Width, Height int
	// ParN and ParD are the pixel aspect ratio. Zero leaves it unchanged.
	ParN, ParD int
	Interlaced bool
}

// PictureInfo describes a picture popped from the codec.
type PictureInfo struct {
	ID     uint32
	Key    bool
	ErrMBs int
}

// Picture is a post-processed picture. The receiver owns it and must call
// Release when done.
type Picture struct {
	Format        frame.Format
	Width, Height int
	PTS           time.Duration
	ID            uint32
	Key           bool
	ErrMBs        int
	// BusAddress is where the post-processor wrote the picture.
	BusAddress uint32

	mem  *memalloc.Memory
	once sync.Once
}

// Data returns the picture bytes, or nil when the picture was written to a
// registered scan-out buffer.
func (p *Picture) Data() []byte {
	if p.mem == nil {
		return nil
	}
	return p.mem.Map()
}

// Memory returns the memory backing the picture, if any.
func (p *Picture) Memory() *memalloc.Memory {
	return p.mem
}

// Release returns the picture memory to its allocator.
func (p *Picture) Release() {
	p.once.Do(func() {
		if p.mem != nil {
			p.mem.Free()
		}
	})
}

// Sink receives finished pictures in the order the hardware reports them.
type Sink interface {
	Push(p *Picture) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(p *Picture) error

func (f SinkFunc) Push(p *Picture) error {
	return f(p)
}

var discard = SinkFunc(func(p *Picture) error {
	p.Release()
	return nil
})
