// Command g1dec decodes a file or an RTP stream on the Hantro G1 and writes
// every picture as a BMP file.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pion/hantro/internal/logging"
	"github.com/pion/hantro/pkg/g1/native"
)

var logger = logging.NewLogger("hantro/g1dec")

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "g1dec: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "g1dec",
		Usage:     "decode H.264, MPEG-4, VP8 and JPEG on the Hantro G1",
		ArgsUsage: "<input>",
		Version:   version,
		Flags:     flags(),
		Action:    decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	input := c.Args().First()
	if input == "" && cfg.RTP == "" {
		return cli.Exit("missing input file or --rtp address", 2)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dev, err := native.Open()
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warnf("close device: %v", err)
		}
	}()

	return run(ctx, cfg, input, dev, newProgress(os.Stderr))
}
