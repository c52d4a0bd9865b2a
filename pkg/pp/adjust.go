package pp

import (
	"fmt"

	"github.com/pion/hantro/pkg/g1"
)

// Video adjustment ranges.
const (
	BrightnessMin = -128
	BrightnessMax = 127
	ContrastMin   = -64
	ContrastMax   = 64
	SaturationMin = -64
	SaturationMax = 128
)

func checkRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrOutOfRange, name, v, lo, hi)
	}
	return nil
}

// SetRotation sets the rotation or flip applied to every picture.
func (s *State) SetRotation(r g1.Rotation) error {
	if err := checkRange("rotation", int(r), int(g1.RotationNone), int(g1.RotationVerticalFlip)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rotation = r
	s.cfg.InRotation.Rotation = r
	return nil
}

// SetBrightness sets the output brightness.
func (s *State) SetBrightness(v int) error {
	if err := checkRange("brightness", v, BrightnessMin, BrightnessMax); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.brightness = v
	s.cfg.OutRGB.Brightness = v
	return nil
}

// SetContrast sets the output contrast.
func (s *State) SetContrast(v int) error {
	if err := checkRange("contrast", v, ContrastMin, ContrastMax); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.contrast = v
	s.cfg.OutRGB.Contrast = v
	return nil
}

// SetSaturation sets the output saturation.
func (s *State) SetSaturation(v int) error {
	if err := checkRange("saturation", v, SaturationMin, SaturationMax); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.saturation = v
	s.cfg.OutRGB.Saturation = v
	return nil
}

// Rotation returns the committed rotation.
func (s *State) Rotation() g1.Rotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation
}

// Brightness returns the committed brightness.
func (s *State) Brightness() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness
}

// Contrast returns the committed contrast.
func (s *State) Contrast() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contrast
}

// Saturation returns the committed saturation.
func (s *State) Saturation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saturation
}
