package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/hantro/pkg/codec/h264"
	"github.com/pion/hantro/pkg/codec/jpeg"
	"github.com/pion/hantro/pkg/codec/mpeg4"
	"github.com/pion/hantro/pkg/codec/vp8"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/pp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "g1dec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.SessionOptions()
	require.NoError(t, err)
	assert.Equal(t, decoder.Options{
		Format:   frame.FormatNV12,
		MaxSteps: decoder.DefaultMaxSteps,
	}, opts)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
codec: h264
output_dir: /tmp/frames
output:
  format: rgbx
  width: 640
  height: 360
  rotation: 90-cw
  brightness: -20
crop:
  x: 16
  y: 8
  width: 1280
  height: 720
h264:
  skip_non_reference: true
mpeg4:
  frame_buffers: 8
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "h264", cfg.Codec)
	assert.Equal(t, "/tmp/frames", cfg.OutputDir)
	assert.Equal(t, 640, cfg.Output.Width)
	assert.Equal(t, -20, cfg.Output.Brightness)
	assert.Equal(t, &RectConfig{X: 16, Y: 8, Width: 1280, Height: 720}, cfg.Crop)
	assert.True(t, cfg.H264.SkipNonReference)
	assert.Equal(t, 8, cfg.MPEG4.FrameBuffers)

	// Untouched keys keep their defaults.
	assert.Equal(t, 30.0, cfg.FrameRate)
	assert.Equal(t, "mpeg4", cfg.MPEG4.StreamFormat)
	assert.Equal(t, vp8.DefaultFrameBuffers, cfg.VP8.FrameBuffers)

	f, err := cfg.Format()
	require.NoError(t, err)
	assert.Equal(t, frame.FormatRGBx, f)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFromFile(writeConfig(t, "output: [not, a, map]"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := map[string]func(c *Config){
		"UnknownCodec":       func(c *Config) { c.Codec = "hevc" },
		"NegativeFrameRate":  func(c *Config) { c.FrameRate = -1 },
		"EmptyQueue":         func(c *Config) { c.Queue = 0 },
		"NoSteps":            func(c *Config) { c.MaxSteps = 0 },
		"UnknownFormat":      func(c *Config) { c.Output.Format = "P010" },
		"NegativeSize":       func(c *Config) { c.Output.Width = -2 },
		"UnknownRotation":    func(c *Config) { c.Output.Rotation = "45" },
		"HardwareAddress":    func(c *Config) { c.UseHardwareAddress = true },
		"EmptyDumpSize":      func(c *Config) { c.DumpSize = &SizeConfig{} },
		"EmptyWindow":        func(c *Config) { c.OutputWindow = &WindowConfig{Address: 0x10000000} },
		"UnknownMPEG4Format": func(c *Config) { c.MPEG4.StreamFormat = "divx" },
	}

	for name, mutate := range testCases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestBuilder(t *testing.T) {
	cfg := Defaults()
	cfg.H264.DisableOutputReordering = true
	cfg.MPEG4.StreamFormat = "sorenson"
	cfg.VP8.VideoFreezeConcealment = true
	cfg.JPEG.PreferThumbnail = true

	b, err := cfg.Builder(h264.Name)
	require.NoError(t, err)
	assert.True(t, b.(*h264.Params).DisableOutputReordering)

	b, err = cfg.Builder(mpeg4.Name)
	require.NoError(t, err)
	assert.Equal(t, g1.MP4StreamSorenson, b.(*mpeg4.Params).StreamFormat)

	b, err = cfg.Builder(vp8.Name)
	require.NoError(t, err)
	assert.True(t, b.(*vp8.Params).VideoFreezeConcealment)

	b, err = cfg.Builder(jpeg.Name)
	require.NoError(t, err)
	assert.True(t, b.(*jpeg.Params).PreferThumbnail)

	_, err = cfg.Builder("hevc")
	assert.ErrorIs(t, err, ErrInvalid)

	cfg.MPEG4.FrameBuffers = 1
	_, err = cfg.Builder(mpeg4.Name)
	assert.Error(t, err)
}

func TestApplyPP(t *testing.T) {
	cfg := Defaults()
	cfg.Output.Rotation = "180"
	cfg.Output.Brightness = 10
	cfg.Output.Contrast = -5
	cfg.Output.Saturation = 20
	cfg.Mask = &MaskConfig{File: filepath.Join(t.TempDir(), "missing.raw"), Width: 8, Height: 8}

	var s pp.State
	require.NoError(t, cfg.ApplyPP(&s))

	assert.Equal(t, g1.Rotation180, s.Rotation())
	assert.Equal(t, 10, s.Brightness())
	assert.Equal(t, -5, s.Contrast())
	assert.Equal(t, 20, s.Saturation())
	assert.Equal(t, 8, s.CurrentMask().Width)

	cfg.Output.Brightness = 1000
	assert.ErrorIs(t, cfg.ApplyPP(&s), pp.ErrOutOfRange)
}

func TestApplyPPCropBeforeInput(t *testing.T) {
	cfg := Defaults()
	cfg.Crop = &RectConfig{X: 3, Y: 3, Width: 64, Height: 64}

	var s pp.State
	require.NoError(t, cfg.ApplyPP(&s))

	// The origin is aligned, cropping waits for the input geometry.
	assert.Equal(t, pp.Rect{X: 0, Y: 0, Width: 64, Height: 64}, s.CropRect())
	assert.False(t, s.Snapshot().InCrop.Enable)
}
