// Package pp holds the post-processor configuration of a decoder session.
//
// State is the single owner of the g1.PPConfig record. User controls and
// the decode loop both mutate it through validated setters, and the record
// is pushed to the hardware as a whole before every output allocation.
package pp

import (
	"sync"

	"github.com/pion/hantro/internal/logging"
	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/memalloc"
)

var logger = logging.NewLogger("hantro/pp")

// Frame buffer overlay defaults written with every output buffer.
const (
	frameBufferOriginX = 200
	frameBufferOriginY = 120
	frameBufferWidth   = 400
	frameBufferHeight  = 240
)

// State is the post-processor configuration of one session. The zero value
// is ready to use.
type State struct {
	mu  sync.Mutex
	cfg g1.PPConfig

	rotation   g1.Rotation
	brightness int
	contrast   int
	saturation int

	crop Rect
	mask MaskSettings

	maskMem   *memalloc.Memory
	allocator memalloc.Allocator

	outWidth, outHeight int
}

// Rect is a committed rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Pull seeds the record from the post-processor defaults, clears the input
// geometry and replays every user control on top. allocator serves the
// mask overlay from now on.
func (s *State) Pull(p g1.PostProcessor, allocator memalloc.Allocator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg g1.PPConfig
	if ret := p.GetConfig(&cfg); ret != g1.PPOK {
		return ret
	}

	s.cfg = cfg
	s.cfg.InImg.Width = 0
	s.cfg.InImg.Height = 0
	s.cfg.InImg.PixFormat = g1.PixFmtUnknown
	s.allocator = allocator

	s.cfg.InRotation.Rotation = s.rotation
	s.cfg.OutRGB.Brightness = s.brightness
	s.cfg.OutRGB.Contrast = s.contrast
	s.cfg.OutRGB.Saturation = s.saturation
	s.reapplyCrop()
	if err := s.loadMask(); err != nil {
		logger.Warnf("mask disabled: %v", err)
	}
	return nil
}

// Push applies the whole record to the post-processor.
func (s *State) Push(p g1.PostProcessor) error {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	return p.SetConfig(&cfg).Err()
}

// Snapshot returns a copy of the record.
func (s *State) Snapshot() g1.PPConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg
}

// SetInputFormat records the geometry of the decoded pictures and validates
// the requested crop against it again.
func (s *State) SetInputFormat(f frame.Format, width, height int) error {
	pix, err := g1.PixelFormatOf(f)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.InImg.Width = width
	s.cfg.InImg.Height = height
	s.cfg.InImg.PixFormat = pix
	s.reapplyCrop()
	return nil
}

// InputKnown reports whether the input geometry has been set.
func (s *State) InputKnown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inputKnown()
}

func (s *State) inputKnown() bool {
	return s.cfg.InImg.Width != 0 && s.cfg.InImg.Height != 0 && s.cfg.InImg.PixFormat != g1.PixFmtUnknown
}

// SetOutputSize records the negotiated output geometry. Zero leaves a
// dimension unknown.
func (s *State) SetOutputSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outWidth = width
	s.outHeight = height
	s.reapplyCrop()
}

// OutputBuffer describes where the post-processor writes a picture.
type OutputBuffer struct {
	Format        frame.Format
	Width, Height int
	Luma, Chroma  uint32
}

// SetOutput points the record at an output buffer.
func (s *State) SetOutput(out OutputBuffer) error {
	pix, err := g1.PixelFormatOf(out.Format)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.OutImg = g1.PPOutImage{
		Width:               out.Width,
		Height:              out.Height,
		PixFormat:           pix,
		BufferBusAddr:       out.Luma,
		BufferChromaBusAddr: out.Chroma,
	}
	s.cfg.OutRGB.DitheringEnable = true
	s.cfg.OutFrmBuffer = g1.PPOutFrameBuffer{
		Enable:            false,
		WriteOriginX:      frameBufferOriginX,
		WriteOriginY:      frameBufferOriginY,
		FrameBufferWidth:  frameBufferWidth,
		FrameBufferHeight: frameBufferHeight,
	}
	return nil
}

// Close frees the mask overlay and forgets the allocator.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.freeMask()
	s.disableMask()
	s.allocator = nil
}
