package decoder

import (
	"fmt"

	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/memalloc"
	"github.com/pion/hantro/pkg/pp"
)

// SetFormat sets the negotiated output format. A zero width or height
// adopts the stream geometry once headers are parsed. The crop request is
// validated again against the new geometry.
func (s *Session) SetFormat(f frame.Format, width, height int) error {
	if _, err := g1.PixelFormatOf(f); err != nil {
		return err
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("decoder: invalid output size %dx%d", width, height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.format = f
	s.reqWidth, s.reqHeight = width, height
	s.outWidth, s.outHeight = width, height
	s.cfg.SetOutputSize(width, height)
	return nil
}

// OutputFormat returns the output format and geometry. The geometry is zero
// until it is negotiated or adopted from the stream.
func (s *Session) OutputFormat() (frame.Format, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.format, s.outWidth, s.outHeight
}

// PixelAspectRatio returns the pixel aspect ratio read from the stream.
func (s *Session) PixelAspectRatio() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.parN, s.parD
}

// SetStreamInfo is called by adapters once stream headers are parsed. It
// records the aspect ratio, adopts the stream geometry as output geometry
// when none was negotiated and sets the post-processor input.
func (s *Session) SetStreamInfo(info StreamInfo) error {
	logger.Infof("session %s: parsed headers: %dx%d %s, par %d:%d, interlaced %v",
		s.id, info.Width, info.Height, info.Format, info.ParN, info.ParD, info.Interlaced)

	if info.ParN > 0 && info.ParD > 0 {
		s.parN, s.parD = info.ParN, info.ParD
	}
	if s.outWidth == 0 || s.outHeight == 0 {
		s.outWidth, s.outHeight = info.Width, info.Height
		s.cfg.SetOutputSize(s.outWidth, s.outHeight)
	}
	if err := s.cfg.SetInputFormat(info.Format, info.Width, info.Height); err != nil {
		return &Error{Kind: KindStream, Op: "input format", Err: err}
	}
	return nil
}

// AllocateOutput gives the post-processor a fresh output buffer and pushes
// the configuration to the hardware. It does nothing until stream headers
// were parsed. Adapters call it before every decode call.
func (s *Session) AllocateOutput() error {
	if s.pp == nil {
		return ErrNotOpen
	}
	if !s.cfg.InputKnown() {
		logger.Debugf("session %s: stream headers not parsed, skipping output allocation", s.id)
		return nil
	}

	s.releaseOutput()

	size, err := frame.Size(s.format, s.outWidth, s.outHeight)
	if err != nil {
		return &Error{Kind: KindConfig, Op: "allocate output", Err: err}
	}

	pic := &Picture{
		Format: s.format,
		Width:  s.outWidth,
		Height: s.outHeight,
	}

	if s.opts.UseHardwareAddress {
		addr, ok := s.opts.Registry.Lookup()
		if !ok {
			return &Error{Kind: KindResource, Op: "allocate output", Err: ErrNoAddress}
		}
		pic.BusAddress = addr
	} else {
		mem, err := s.outAlloc.Alloc(int(size), memalloc.Params{Flags: memalloc.FlagPhysicallyContiguous})
		if err != nil {
			logger.Errorf("session %s: unable to allocate memory for post processor: %v", s.id, err)
			return &Error{Kind: KindResource, Op: "allocate output", Err: err}
		}
		if !mem.Contiguous() {
			mem.Free()
			return &Error{Kind: KindFatal, Op: "allocate output", Err: fmt.Errorf("%w: %s", ErrNotContiguous, s.outAlloc.Name())}
		}
		pic.mem = mem
		pic.BusAddress = mem.Physical()
	}

	offsets := frame.PlaneOffsets(s.format, s.outWidth, s.outHeight)
	out := pp.OutputBuffer{
		Format: s.format,
		Width:  s.outWidth,
		Height: s.outHeight,
		Luma:   pic.BusAddress + uint32(offsets[0]),
	}
	if len(offsets) > 1 {
		out.Chroma = pic.BusAddress + uint32(offsets[1])
	}

	if err := s.cfg.SetOutput(out); err != nil {
		pic.Release()
		return &Error{Kind: KindConfig, Op: "allocate output", Err: err}
	}
	if err := s.cfg.Push(s.pp); err != nil {
		pic.Release()
		logger.Errorf("session %s: %v", s.id, err)
		return NewError("set config", KindConfig, err)
	}

	s.output = pic
	logger.Tracef("session %s: allocated output at 0x%08x", s.id, pic.BusAddress)
	return nil
}

// PushCompleted forwards the current output buffer downstream once the
// post-processor reports success. A picture popped without an output
// buffer is dropped.
func (s *Session) PushCompleted(info PictureInfo) error {
	if info.ErrMBs > 0 {
		logger.Warnf("session %s: concealed %d macroblocks", s.id, info.ErrMBs)
	}

	pic := s.output
	if pic == nil {
		s.stats.Dropped++
		logger.Warnf("session %s: picture %d has no output buffer, dropping it", s.id, info.ID)
		return nil
	}
	s.output = nil

	if ret := s.pp.GetResult(); ret != g1.PPOK {
		pic.Release()
		logger.Errorf("session %s: %v", s.id, ret)
		return NewError("post-process", KindStream, ret)
	}

	pic.PTS = s.pts
	pic.ID = info.ID
	pic.Key = info.Key
	pic.ErrMBs = info.ErrMBs
	s.stats.Pictures++

	if err := s.sink.Push(pic); err != nil {
		return fmt.Errorf("decoder: sink: %w", err)
	}
	return nil
}

func (s *Session) releaseOutput() {
	if s.output != nil {
		s.output.Release()
		s.output = nil
	}
}
