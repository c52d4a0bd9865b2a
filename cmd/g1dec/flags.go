package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pion/hantro/internal/logging"
	"github.com/pion/hantro/pkg/codec"
	"github.com/pion/hantro/pkg/config"
)

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load settings from a YAML `FILE`"},
		&cli.StringFlag{Name: "codec", Usage: "one of " + strings.Join(codec.Names(), ", ") + " (default: from the file extension)"},
		&cli.StringFlag{Name: "rtp", Usage: "receive RTP on a UDP `ADDRESS` instead of reading a file"},
		&cli.Float64Flag{Name: "frame-rate", Usage: "timestamp raw streams at `FPS`"},
		&cli.IntFlag{Name: "width", Usage: "output width (default: stream width)"},
		&cli.IntFlag{Name: "height", Usage: "output height (default: stream height)"},
		&cli.StringFlag{Name: "format", Usage: "output pixel `FORMAT` such as NV12, YUY2, RGB16 or RGBx"},
		&cli.StringFlag{Name: "rotation", Usage: "none, 90-ccw, 180, 90-cw, horizontal-flip or vertical-flip"},
		&cli.IntFlag{Name: "brightness", Usage: "-128 to 127"},
		&cli.IntFlag{Name: "contrast", Usage: "-64 to 64"},
		&cli.IntFlag{Name: "saturation", Usage: "-64 to 128"},
		&cli.StringFlag{Name: "crop", Usage: "crop the input to `X,Y,WIDTH,HEIGHT`"},
		&cli.StringFlag{Name: "mask", Usage: "blend an ARGB overlay, `FILE:X,Y,WIDTH,HEIGHT`"},
		&cli.StringFlag{Name: "dump-size", Usage: "rescale dumped frames to `WIDTHxHEIGHT`, 0 keeps the aspect ratio"},
		&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "write frames into `DIR`"},
		&cli.IntFlag{Name: "max-frames", Usage: "stop after `N` frames, 0 for no limit"},
		&cli.IntFlag{Name: "queue", Usage: "pictures buffered between decoder and writer"},
		&cli.BoolFlag{Name: "use-hw-address", Usage: "post-process into the scan-out buffer instead of memory"},
		&cli.Uint64Flag{Name: "scanout-address", Usage: "bus `ADDRESS` of the scan-out buffer"},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: "trace, debug, info, warn, error or disabled"},
	}
}

// loadConfig reads the configuration file, if any, and applies the flags
// given on the command line on top.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}

	if err := applyFlags(&cfg, c); err != nil {
		return cfg, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	logging.SetLevel(level)

	return cfg, cfg.Validate()
}

func applyFlags(cfg *config.Config, c *cli.Context) error {
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	setString("codec", &cfg.Codec)
	setString("rtp", &cfg.RTP)
	setString("format", &cfg.Output.Format)
	setString("rotation", &cfg.Output.Rotation)
	setString("output-dir", &cfg.OutputDir)
	setString("log-level", &cfg.LogLevel)
	setInt("width", &cfg.Output.Width)
	setInt("height", &cfg.Output.Height)
	setInt("brightness", &cfg.Output.Brightness)
	setInt("contrast", &cfg.Output.Contrast)
	setInt("saturation", &cfg.Output.Saturation)
	setInt("max-frames", &cfg.MaxFrames)
	setInt("queue", &cfg.Queue)

	if c.IsSet("frame-rate") {
		cfg.FrameRate = c.Float64("frame-rate")
	}
	if c.IsSet("use-hw-address") {
		cfg.UseHardwareAddress = c.Bool("use-hw-address")
	}
	if c.IsSet("scanout-address") {
		addr := c.Uint64("scanout-address")
		if addr > 0xffffffff {
			return fmt.Errorf("scanout address %#x is not a 32-bit bus address", addr)
		}
		cfg.ScanoutAddress = uint32(addr)
	}

	if c.IsSet("crop") {
		r, err := parseRect(c.String("crop"))
		if err != nil {
			return fmt.Errorf("--crop: %w", err)
		}
		cfg.Crop = &r
	}
	if c.IsSet("mask") {
		m, err := parseMask(c.String("mask"))
		if err != nil {
			return fmt.Errorf("--mask: %w", err)
		}
		cfg.Mask = &m
	}
	if c.IsSet("dump-size") {
		s, err := parseSize(c.String("dump-size"))
		if err != nil {
			return fmt.Errorf("--dump-size: %w", err)
		}
		cfg.DumpSize = &s
	}
	return nil
}

func parseInts(s, sep string, n int) ([]int, error) {
	fields := strings.Split(s, sep)
	if len(fields) != n {
		return nil, fmt.Errorf("want %d values separated by %q, got %q", n, sep, s)
	}

	v := make([]int, n)
	for i, f := range fields {
		var err error
		if v[i], err = strconv.Atoi(strings.TrimSpace(f)); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// parseRect parses "x,y,width,height".
func parseRect(s string) (config.RectConfig, error) {
	v, err := parseInts(s, ",", 4)
	if err != nil {
		return config.RectConfig{}, err
	}
	return config.RectConfig{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// parseMask parses "file:x,y,width,height". The file name may contain
// colons.
func parseMask(s string) (config.MaskConfig, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		return config.MaskConfig{}, fmt.Errorf("want FILE:X,Y,WIDTH,HEIGHT, got %q", s)
	}

	r, err := parseRect(s[i+1:])
	if err != nil {
		return config.MaskConfig{}, err
	}
	return config.MaskConfig{
		File:   s[:i],
		X:      r.X,
		Y:      r.Y,
		Width:  r.Width,
		Height: r.Height,
	}, nil
}

// parseSize parses "widthxheight".
func parseSize(s string) (config.SizeConfig, error) {
	v, err := parseInts(strings.ToLower(s), "x", 2)
	if err != nil {
		return config.SizeConfig{}, err
	}
	return config.SizeConfig{Width: v[0], Height: v[1]}, nil
}
