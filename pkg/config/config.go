// Package config loads the g1dec configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pion/hantro/pkg/codec"
	"github.com/pion/hantro/pkg/codec/h264"
	"github.com/pion/hantro/pkg/codec/jpeg"
	"github.com/pion/hantro/pkg/codec/mpeg4"
	"github.com/pion/hantro/pkg/codec/vp8"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/pp"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the full configuration for g1dec.
type Config struct {
	// Input
	Codec     string  `yaml:"codec"`
	RTP       string  `yaml:"rtp"`
	FrameRate float64 `yaml:"frame_rate"`

	// Output
	OutputDir string       `yaml:"output_dir"`
	MaxFrames int          `yaml:"max_frames"`
	Queue     int          `yaml:"queue"`
	Output    OutputConfig `yaml:"output"`
	Crop      *RectConfig  `yaml:"crop"`
	Mask      *MaskConfig  `yaml:"mask"`
	DumpSize  *SizeConfig  `yaml:"dump_size"`

	// Memory
	UseHardwareAddress bool          `yaml:"use_hw_address"`
	ScanoutAddress     uint32        `yaml:"scanout_address"`
	OutputWindow       *WindowConfig `yaml:"output_window"`
	MaxSteps           int           `yaml:"max_steps"`

	// Codecs
	H264  H264Config  `yaml:"h264"`
	MPEG4 MPEG4Config `yaml:"mpeg4"`
	VP8   VP8Config   `yaml:"vp8"`
	JPEG  JPEGConfig  `yaml:"jpeg"`

	// Debug
	LogLevel string `yaml:"log_level"`
}

// OutputConfig represents the post-processor output settings.
type OutputConfig struct {
	Format     string `yaml:"format"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Rotation   string `yaml:"rotation"`
	Brightness int    `yaml:"brightness"`
	Contrast   int    `yaml:"contrast"`
	Saturation int    `yaml:"saturation"`
}

// RectConfig represents a crop rectangle.
type RectConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// MaskConfig represents the alpha blended overlay.
type MaskConfig struct {
	File   string `yaml:"file"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// SizeConfig represents a software rescale of the dumped frames. A zero
// dimension keeps the aspect ratio.
type SizeConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// WindowConfig represents a physically contiguous memory window.
type WindowConfig struct {
	Address uint32 `yaml:"address"`
	Size    int    `yaml:"size"`
}

// H264Config represents the H.264 decoder settings.
type H264Config struct {
	SkipNonReference        bool `yaml:"skip_non_reference"`
	DisableOutputReordering bool `yaml:"disable_output_reordering"`
	IntraFreezeConcealment  bool `yaml:"intra_freeze_concealment"`
	UseDisplaySmoothing     bool `yaml:"use_display_smoothing"`
}

// MPEG4Config represents the MPEG-4 Part 2 decoder settings.
type MPEG4Config struct {
	StreamFormat           string `yaml:"stream_format"`
	VideoFreezeConcealment bool   `yaml:"video_freeze_concealment"`
	FrameBuffers           int    `yaml:"frame_buffers"`
	SkipNonReference       bool   `yaml:"skip_non_reference"`
}

// VP8Config represents the VP8 decoder settings.
type VP8Config struct {
	VideoFreezeConcealment bool `yaml:"video_freeze_concealment"`
	FrameBuffers           int  `yaml:"frame_buffers"`
}

// JPEGConfig represents the JPEG decoder settings.
type JPEGConfig struct {
	PreferThumbnail bool `yaml:"prefer_thumbnail"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		FrameRate: 30,
		OutputDir: ".",
		Queue:     4,
		Output: OutputConfig{
			Format:   string(frame.FormatNV12),
			Rotation: g1.RotationNone.String(),
		},
		MaxSteps: decoder.DefaultMaxSteps,
		MPEG4: MPEG4Config{
			StreamFormat: g1.MP4StreamMPEG4.String(),
			FrameBuffers: mpeg4.DefaultFrameBuffers,
		},
		VP8: VP8Config{
			FrameBuffers: vp8.DefaultFrameBuffers,
		},
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks the values that can be checked without hardware.
func (c Config) Validate() error {
	if c.Codec != "" {
		if _, ok := codecs[c.Codec]; !ok {
			return invalid("unknown codec %q", c.Codec)
		}
	}
	if c.FrameRate < 0 {
		return invalid("negative frame rate %v", c.FrameRate)
	}
	if c.Queue < 1 {
		return invalid("queue must hold at least one picture")
	}
	if c.MaxSteps < 1 {
		return invalid("max_steps must be positive")
	}
	if _, err := c.Format(); err != nil {
		return err
	}
	if c.Output.Width < 0 || c.Output.Height < 0 {
		return invalid("negative output size %dx%d", c.Output.Width, c.Output.Height)
	}
	if _, err := g1.ParseRotation(c.Output.Rotation); err != nil {
		return invalid("%v", err)
	}
	if d := c.DumpSize; d != nil && (d.Width < 0 || d.Height < 0 || d.Width == 0 && d.Height == 0) {
		return invalid("invalid dump size %dx%d", d.Width, d.Height)
	}
	if c.UseHardwareAddress && c.ScanoutAddress == 0 {
		return invalid("use_hw_address needs a scanout_address")
	}
	if w := c.OutputWindow; w != nil && w.Size <= 0 {
		return invalid("output window size must be positive")
	}
	if _, err := parseStreamFormat(c.MPEG4.StreamFormat); err != nil {
		return err
	}
	return nil
}

// Format returns the configured output pixel format.
func (c Config) Format() (frame.Format, error) {
	for _, f := range frame.Formats() {
		if strings.EqualFold(string(f), c.Output.Format) {
			return f, nil
		}
	}
	return "", invalid("unknown output format %q", c.Output.Format)
}

// SessionOptions returns the decoder.Options described by c. Allocators
// are left to the caller.
func (c Config) SessionOptions() (decoder.Options, error) {
	f, err := c.Format()
	if err != nil {
		return decoder.Options{}, err
	}
	return decoder.Options{
		Format:             f,
		Width:              c.Output.Width,
		Height:             c.Output.Height,
		UseHardwareAddress: c.UseHardwareAddress,
		MaxSteps:           c.MaxSteps,
	}, nil
}

// ApplyPP writes the post-processor settings of c into s.
func (c Config) ApplyPP(s *pp.State) error {
	rotation, err := g1.ParseRotation(c.Output.Rotation)
	if err != nil {
		return err
	}
	if err := s.SetRotation(rotation); err != nil {
		return err
	}
	if err := s.SetBrightness(c.Output.Brightness); err != nil {
		return err
	}
	if err := s.SetContrast(c.Output.Contrast); err != nil {
		return err
	}
	if err := s.SetSaturation(c.Output.Saturation); err != nil {
		return err
	}

	if r := c.Crop; r != nil {
		err := s.SetCrop(pp.Crop{
			X:      pp.Some(r.X),
			Y:      pp.Some(r.Y),
			Width:  pp.Some(r.Width),
			Height: pp.Some(r.Height),
		})
		if err != nil {
			return err
		}
	}

	if m := c.Mask; m != nil {
		// A mask that fails to load is disabled, decoding goes on.
		err := s.SetMask(pp.Mask{
			Location: pp.Some(m.File),
			X:        pp.Some(m.X),
			Y:        pp.Some(m.Y),
			Width:    pp.Some(m.Width),
			Height:   pp.Some(m.Height),
		})
		if err != nil && errors.Is(err, pp.ErrOutOfRange) {
			return err
		}
	}
	return nil
}

var codecs = map[string]func(c Config) (codec.Builder, error){
	h264.Name: func(c Config) (codec.Builder, error) {
		p, err := h264.NewParams()
		if err != nil {
			return nil, err
		}
		p.SkipNonReference = c.H264.SkipNonReference
		p.DisableOutputReordering = c.H264.DisableOutputReordering
		p.IntraFreezeConcealment = c.H264.IntraFreezeConcealment
		p.UseDisplaySmoothing = c.H264.UseDisplaySmoothing
		return &p, nil
	},
	mpeg4.Name: func(c Config) (codec.Builder, error) {
		p, err := mpeg4.NewParams()
		if err != nil {
			return nil, err
		}
		if p.StreamFormat, err = parseStreamFormat(c.MPEG4.StreamFormat); err != nil {
			return nil, err
		}
		p.VideoFreezeConcealment = c.MPEG4.VideoFreezeConcealment
		p.NumFrameBuffers = c.MPEG4.FrameBuffers
		p.SkipNonReference = c.MPEG4.SkipNonReference
		return &p, p.Validate()
	},
	vp8.Name: func(c Config) (codec.Builder, error) {
		p, err := vp8.NewParams()
		if err != nil {
			return nil, err
		}
		p.VideoFreezeConcealment = c.VP8.VideoFreezeConcealment
		p.NumFrameBuffers = c.VP8.FrameBuffers
		return &p, p.Validate()
	},
	jpeg.Name: func(c Config) (codec.Builder, error) {
		p, err := jpeg.NewParams()
		if err != nil {
			return nil, err
		}
		p.PreferThumbnail = c.JPEG.PreferThumbnail
		return &p, nil
	},
}

// Builder returns the adapter builder of the named codec, parameterized by
// the matching section of c.
func (c Config) Builder(name string) (codec.Builder, error) {
	build, ok := codecs[name]
	if !ok {
		return nil, invalid("unknown codec %q", name)
	}
	return build(c)
}

func parseStreamFormat(s string) (g1.MP4StreamFormat, error) {
	for _, f := range []g1.MP4StreamFormat{g1.MP4StreamMPEG4, g1.MP4StreamSorenson, g1.MP4StreamCustom1} {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, invalid("unknown mpeg4 stream format %q", s)
}
