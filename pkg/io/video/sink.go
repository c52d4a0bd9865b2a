package video

import (
	"errors"
	"image"
	"io"
	"sync"

	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/frame"
)

var errNoPictureData = errors.New("video: picture has no mapped memory")

// SinkReader bridges a decoder.Session to a Reader. Pictures pushed by the
// session are queued and decoded to images on Read. When the queue is full
// the oldest picture is dropped.
type SinkReader struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*decoder.Picture
	capacity int
	closed   bool
	dropped  int

	decoders map[frame.Format]frame.Decoder
}

// NewSinkReader returns a SinkReader queueing up to capacity pictures.
func NewSinkReader(capacity int) *SinkReader {
	if capacity < 1 {
		capacity = 1
	}
	s := &SinkReader{
		capacity: capacity,
		decoders: make(map[frame.Format]frame.Decoder),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Push implements decoder.Sink. It never blocks.
func (s *SinkReader) Push(p *decoder.Picture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		p.Release()
		return io.ErrClosedPipe
	}

	if len(s.queue) == s.capacity {
		old := s.queue[0]
		s.queue = s.queue[1:]
		old.Release()
		s.dropped++
		logger.Warnf("sink full, dropping picture %d", old.ID)
	}
	s.queue = append(s.queue, p)
	s.cond.Signal()
	return nil
}

// Read blocks until a picture is queued and returns it as an image. The
// image aliases the picture memory until release is called. Read returns
// io.EOF once the reader is closed and drained.
func (s *SinkReader) Read() (image.Image, func(), error) {
	s.mu.Lock()
	for len(s.queue) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return nil, func() {}, io.EOF
	}
	p := s.queue[0]
	s.queue = s.queue[1:]

	dec, err := s.decoder(p.Format)
	s.mu.Unlock()
	if err != nil {
		p.Release()
		return nil, func() {}, err
	}

	data := p.Data()
	if data == nil {
		p.Release()
		return nil, func() {}, errNoPictureData
	}

	img, release, err := dec.Decode(data, p.Width, p.Height)
	if err != nil {
		p.Release()
		return nil, func() {}, err
	}

	return img, func() {
		release()
		p.Release()
	}, nil
}

func (s *SinkReader) decoder(f frame.Format) (frame.Decoder, error) {
	if dec, ok := s.decoders[f]; ok {
		return dec, nil
	}
	dec, err := frame.NewDecoder(f)
	if err != nil {
		return nil, err
	}
	s.decoders[f] = dec
	return dec, nil
}

// Dropped returns the number of pictures dropped because the queue was full.
func (s *SinkReader) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close wakes up blocked readers. Queued pictures can still be read.
func (s *SinkReader) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cond.Broadcast()
	return nil
}
