package pp

import (
	"fmt"
	"io"
	"os"

	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/memalloc"
)

// MaskMax bounds every mask coordinate and dimension.
const MaskMax = 4096

// Mask requests a change of the alpha blended overlay. Unset fields keep
// their current value.
type Mask struct {
	Location      Optional[string]
	X, Y          Optional[int]
	Width, Height Optional[int]
}

// MaskSettings is the committed overlay request. The file at Location holds
// raw 32 bit pixels, Width*Height*4 bytes without a header.
type MaskSettings struct {
	Location      string
	X, Y          int
	Width, Height int
}

// SetMask commits a mask request and reloads the overlay. The overlay is
// enabled only while a location, a width and a height are all present and
// the file loads. A load failure disables the overlay and is returned, the
// session keeps decoding.
func (s *State) SetMask(m Mask) error {
	for _, f := range []struct {
		name string
		v    Optional[int]
	}{
		{"mask x", m.X},
		{"mask y", m.Y},
		{"mask width", m.Width},
		{"mask height", m.Height},
	} {
		if v, ok := f.v.Get(); ok {
			if err := checkRange(f.name, v, 0, MaskMax); err != nil {
				return err
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mask = MaskSettings{
		Location: m.Location.Or(s.mask.Location),
		X:        m.X.Or(s.mask.X),
		Y:        m.Y.Or(s.mask.Y),
		Width:    m.Width.Or(s.mask.Width),
		Height:   m.Height.Or(s.mask.Height),
	}
	return s.loadMask()
}

// CurrentMask returns the committed mask request.
func (s *State) CurrentMask() MaskSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mask
}

// MaskEnabled reports whether an overlay is loaded and enabled.
func (s *State) MaskEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.OutMask1.Enable
}

func (s *State) loadMask() error {
	s.freeMask()

	m := s.mask
	if m.Location == "" || m.Width == 0 || m.Height == 0 || s.allocator == nil {
		s.disableMask()
		return nil
	}

	mem, err := readMask(s.allocator, m)
	if err != nil {
		s.disableMask()
		logger.Errorf("failed to load mask %s: %v", m.Location, err)
		return err
	}

	s.maskMem = mem
	s.cfg.OutMask1 = g1.PPOutMask{
		Enable:             true,
		OriginX:            m.X,
		OriginY:            m.Y,
		Width:              m.Width,
		Height:             m.Height,
		AlphaBlendEna:      true,
		BlendComponentBase: mem.Physical(),
		BlendOriginX:       0,
		BlendOriginY:       0,
		BlendWidth:         m.Width,
		BlendHeight:        m.Height,
	}
	return nil
}

func readMask(a memalloc.Allocator, m MaskSettings) (*memalloc.Memory, error) {
	size := m.Width * m.Height * 4

	f, err := os.Open(m.Location)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() != int64(size) {
		return nil, fmt.Errorf("%w: %d bytes, %dx%d needs %d", ErrMaskSize, info.Size(), m.Width, m.Height, size)
	}

	mem, err := a.Alloc(size, memalloc.Params{Flags: memalloc.FlagPhysicallyContiguous})
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(f, mem.Map()); err != nil {
		mem.Free()
		return nil, err
	}
	mem.Unmap()
	return mem, nil
}

func (s *State) freeMask() {
	if s.maskMem != nil {
		s.maskMem.Free()
		s.maskMem = nil
	}
}

func (s *State) disableMask() {
	s.cfg.OutMask1.Enable = false
	s.cfg.OutMask1.AlphaBlendEna = false
	s.cfg.OutMask1.BlendComponentBase = 0
}
