package pp

import "fmt"

// Crop control ranges.
const (
	CropOriginMax = 4096
	CropSizeMax   = 4672
)

// Crop requests a change of the input crop rectangle. Unset fields keep
// their current value.
type Crop struct {
	X, Y          Optional[int]
	Width, Height Optional[int]
}

// SetCrop validates and commits a crop request. X and Y are aligned down to
// 16 and the size down to 8. A request that would be smaller than a third of
// the output, or reach outside the input, is rejected as a whole.
func (s *State) SetCrop(c Crop) error {
	for _, f := range []struct {
		name string
		v    Optional[int]
		max  int
	}{
		{"crop x", c.X, CropOriginMax},
		{"crop y", c.Y, CropOriginMax},
		{"crop width", c.Width, CropSizeMax},
		{"crop height", c.Height, CropSizeMax},
	} {
		if v, ok := f.v.Get(); ok {
			if err := checkRange(f.name, v, 0, f.max); err != nil {
				return err
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.configureCrop(c); err != nil {
		logger.Errorf("%v", err)
		return err
	}
	return nil
}

// CropRect returns the committed crop request. It is not necessarily
// applied, see CropEnabled.
func (s *State) CropRect() Rect {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.crop
}

// CropEnabled reports whether the record crops the input. It is false until
// the input geometry is known, and while the committed crop doesn't fit it.
func (s *State) CropEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.InCrop.Enable
}

func alignDown(name string, o Optional[int], align int) Optional[int] {
	v, ok := o.Get()
	if !ok || v%align == 0 {
		return o
	}
	aligned := v &^ (align - 1)
	logger.Warnf("%s %d is not a multiple of %d, using %d", name, v, align, aligned)
	return Some(aligned)
}

func (s *State) configureCrop(c Crop) error {
	x := alignDown("crop x", c.X, 16)
	y := alignDown("crop y", c.Y, 16)
	w := alignDown("crop width", c.Width, 8)
	h := alignDown("crop height", c.Height, 8)

	if v, ok := w.Get(); ok && v != 0 && s.outWidth != 0 && 3*v < s.outWidth {
		return fmt.Errorf("%w: width %d, output width %d", ErrCropTooSmall, v, s.outWidth)
	}
	if v, ok := h.Get(); ok && v != 0 && s.outHeight != 0 && 3*v-2 < s.outHeight {
		return fmt.Errorf("%w: height %d, output height %d", ErrCropTooSmall, v, s.outHeight)
	}

	in := s.cfg.InImg
	if (x.IsSet() || w.IsSet()) && in.Width != 0 {
		if right := x.Or(s.crop.X) + w.Or(s.crop.Width); right > in.Width {
			return fmt.Errorf("%w: right edge %d, input width %d", ErrCropOutOfBounds, right, in.Width)
		}
	}
	if (y.IsSet() || h.IsSet()) && in.Height != 0 {
		if bottom := y.Or(s.crop.Y) + h.Or(s.crop.Height); bottom > in.Height {
			return fmt.Errorf("%w: bottom edge %d, input height %d", ErrCropOutOfBounds, bottom, in.Height)
		}
	}

	s.crop = Rect{
		X:      x.Or(s.crop.X),
		Y:      y.Or(s.crop.Y),
		Width:  w.Or(s.crop.Width),
		Height: h.Or(s.crop.Height),
	}
	s.writeCrop()
	return nil
}

// writeCrop mirrors the committed crop into the record. Cropping is only
// enabled once the input geometry is known.
func (s *State) writeCrop() {
	if !s.inputKnown() {
		s.cfg.InCrop.Enable = false
		return
	}
	s.cfg.InCrop.OriginX = s.crop.X
	s.cfg.InCrop.OriginY = s.crop.Y
	s.cfg.InCrop.Width = s.crop.Width
	s.cfg.InCrop.Height = s.crop.Height
	s.cfg.InCrop.Enable = s.crop.Width != 0 && s.crop.Height != 0
}

// reapplyCrop validates the committed crop against changed geometry. A crop
// that no longer fits stays requested but is disabled in the record.
func (s *State) reapplyCrop() {
	c := s.crop
	err := s.configureCrop(Crop{
		X:      Some(c.X),
		Y:      Some(c.Y),
		Width:  Some(c.Width),
		Height: Some(c.Height),
	})
	if err != nil {
		logger.Errorf("crop disabled: %v", err)
		s.cfg.InCrop.Enable = false
	}
}
