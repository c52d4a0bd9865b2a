package decoder

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/memalloc"
	"github.com/pion/hantro/pkg/pp"
)

// Options configures a Session.
type Options struct {
	// Format is the output pixel format. Defaults to NV12.
	Format frame.Format
	// Width and Height are the output geometry. Zero adopts the stream
	// geometry once headers are parsed.
	Width, Height int
	// Allocator serves input copies and, unless OutputAllocator or an
	// allocation query says otherwise, output pictures. Defaults to the
	// hardware's linear allocator, created on every Open.
	Allocator memalloc.Allocator
	// OutputAllocator serves output pictures.
	OutputAllocator memalloc.Allocator
	// UseHardwareAddress makes the post-processor write into the scan-out
	// buffer published in Registry instead of allocated memory.
	UseHardwareAddress bool
	Registry           *memalloc.AddressRegistry
	// MaxSteps bounds the decode calls per access unit. Defaults to
	// DefaultMaxSteps.
	MaxSteps int
}

// Session is one decode stream through a codec instance pipelined with the
// post-processor. Open, HandleInput and Close are serialized. The pp.State
// returned by PP may be changed at any time.
type Session struct {
	id      uuid.UUID
	hw      g1.Hardware
	adapter Adapter
	sink    Sink
	opts    Options

	mu    sync.Mutex
	state State

	cfg      pp.State
	pp       g1.PostProcessor
	codec    g1.Codec
	alloc    memalloc.Allocator
	outAlloc memalloc.Allocator
	output   *Picture

	format              frame.Format
	reqWidth, reqHeight int
	outWidth, outHeight int
	parN, parD          int

	codecData  []byte
	headerDone bool
	pts        time.Duration

	stats   Stats
	bitrate *bitrateTracker
}

// NewSession returns a closed session decoding with a. Pictures go to sink;
// a nil sink releases them.
func NewSession(hw g1.Hardware, a Adapter, sink Sink, opts Options) (*Session, error) {
	if opts.Format == "" {
		opts.Format = frame.FormatNV12
	}
	if _, err := g1.PixelFormatOf(opts.Format); err != nil {
		return nil, err
	}
	if opts.Width < 0 || opts.Height < 0 {
		return nil, fmt.Errorf("decoder: invalid output size %dx%d", opts.Width, opts.Height)
	}
	if opts.UseHardwareAddress && opts.Registry == nil {
		return nil, fmt.Errorf("decoder: hardware addressing needs an address registry")
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if sink == nil {
		sink = discard
	}

	return &Session{
		id:        uuid.New(),
		hw:        hw,
		adapter:   a,
		sink:      sink,
		opts:      opts,
		state:     StateClosed,
		format:    opts.Format,
		reqWidth:  opts.Width,
		reqHeight: opts.Height,
		parN:      1,
		parD:      1,
		bitrate:   newBitrateTracker(bitrateWindow),
	}, nil
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Kind returns the codec the session drives.
func (s *Session) Kind() CodecKind {
	return s.adapter.Kind()
}

// PP returns the post-processor configuration. Controls set while the
// session is closed are applied on Open.
func (s *Session) PP() *pp.State {
	return &s.cfg
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Stats returns the counters since the last Open.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	stats.Bitrate = s.bitrate.bitrate()
	return stats
}

// Open creates the post-processor and the codec instance, pipelines them
// and seeds the configuration from the hardware defaults. On failure
// everything acquired is released and the session stays closed.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.Update(StateOpening, nil); err != nil {
		return err
	}
	if err := s.open(); err != nil {
		logger.Errorf("session %s: open failed: %v", s.id, err)
		s.state = StateClosed
		return err
	}
	logger.Infof("session %s: opened %s decoder", s.id, s.adapter.Kind())
	return s.state.Update(StateOpened, nil)
}

func (s *Session) open() error {
	alloc := s.opts.Allocator
	if alloc == nil {
		la, err := s.hw.NewLinearAllocator()
		if err != nil {
			return fmt.Errorf("decoder: allocator: %w", err)
		}
		alloc = la
	}

	p, err := s.hw.NewPostProcessor()
	if err != nil {
		return fmt.Errorf("decoder: post-processor: %w", err)
	}

	codec, err := s.adapter.Open(s.hw)
	if err != nil {
		p.Release()
		return fmt.Errorf("decoder: open %s: %w", s.adapter.Kind(), err)
	}

	if ret := p.CombinedModeEnable(codec, s.adapter.Kind()); ret != g1.PPOK {
		s.adapter.Close()
		p.Release()
		return NewError("combine", KindConfig, ret)
	}

	if err := s.cfg.Pull(p, alloc); err != nil {
		p.CombinedModeDisable(codec)
		s.adapter.Close()
		p.Release()
		return NewError("pull config", KindConfig, err)
	}

	s.pp = p
	s.codec = codec
	s.alloc = alloc
	s.outAlloc = s.opts.OutputAllocator
	if s.outAlloc == nil {
		s.outAlloc = alloc
	}
	s.outWidth, s.outHeight = s.reqWidth, s.reqHeight
	s.cfg.SetOutputSize(s.outWidth, s.outHeight)
	s.headerDone = false
	s.stats = Stats{}
	s.bitrate = newBitrateTracker(bitrateWindow)
	return nil
}

// Close releases the post-processor and the codec instance. Closing a
// closed session is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}
	if err := s.state.Update(StateClosing, nil); err != nil {
		return err
	}

	s.releaseOutput()
	if ret := s.pp.CombinedModeDisable(s.codec); ret != g1.PPOK {
		logger.Warnf("session %s: %v", s.id, ret)
	}
	s.pp.Release()
	err := s.adapter.Close()
	s.cfg.Close()

	s.pp = nil
	s.codec = nil
	s.alloc = nil
	s.outAlloc = nil
	s.state = StateClosed
	logger.Infof("session %s: closed", s.id)
	return err
}

// SetCodecData stores out of band stream headers. Adapters implementing
// HeaderDecoder parse them before the first access unit after Open.
func (s *Session) SetCodecData(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codecData = append([]byte(nil), b...)
	s.headerDone = false
}

// HandleInput decodes one access unit. The access unit is always released,
// whatever the outcome. Stream errors are absorbed; a fatal error moves the
// session to StateFailed.
func (s *Session) HandleInput(au AccessUnit) error {
	defer au.release()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateOpened:
	case StateFailed:
		return ErrFailed
	default:
		return ErrNotOpen
	}
	if err := s.state.Update(StateDecoding, nil); err != nil {
		return err
	}

	err := s.handleInput(&au)

	next := StateOpened
	if IsFatal(err) {
		next = StateFailed
		logger.Errorf("session %s: %v", s.id, err)
	}
	s.state = next
	return err
}

func (s *Session) handleInput(au *AccessUnit) error {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		s.stats.DecodeTime += elapsed
		logger.Debugf("session %s: processed buffer in %v", s.id, elapsed)
	}()

	if err := s.decodeHeader(); err != nil {
		return err
	}

	data := au.bytes()
	if len(data) == 0 {
		logger.Debugf("session %s: skipping empty access unit", s.id)
		return nil
	}

	in, free, err := s.contiguous(au.Memory, data)
	if err != nil {
		return err
	}
	defer free()
	in.PTS = au.PTS

	s.pts = au.PTS
	s.stats.AccessUnits++
	s.bitrate.add(len(data), au.PTS)

	err = s.adapter.Decode(s, in)
	s.releaseOutput()
	return err
}

// contiguous returns data as hardware addressable input, copying it when
// mem isn't contiguous. free releases the copy.
func (s *Session) contiguous(mem *memalloc.Memory, data []byte) (Input, func(), error) {
	if mem != nil && mem.Contiguous() {
		return Input{Stream: data, BusAddress: mem.Physical()}, func() {}, nil
	}

	logger.Tracef("session %s: copying %d bytes to contiguous memory", s.id, len(data))
	c, err := memalloc.CopyFrom(s.alloc, data, memalloc.Params{Flags: memalloc.FlagPhysicallyContiguous})
	if err != nil {
		return Input{}, nil, &Error{Kind: KindResource, Op: "copy input", Err: err}
	}
	return Input{Stream: c.Map(), BusAddress: c.Physical()}, c.Free, nil
}

func (s *Session) decodeHeader() error {
	if s.headerDone || len(s.codecData) == 0 {
		return nil
	}
	s.headerDone = true

	hd, ok := s.adapter.(HeaderDecoder)
	if !ok {
		return nil
	}

	in, free, err := s.contiguous(nil, s.codecData)
	if err != nil {
		return err
	}
	defer free()

	return hd.DecodeHeader(s, in)
}
