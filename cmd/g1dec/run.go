package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/pion/hantro/pkg/codec"
	"github.com/pion/hantro/pkg/config"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/io/video"
	"github.com/pion/hantro/pkg/memalloc"
	"github.com/pion/hantro/pkg/source"
)

var errNoCodec = errors.New("can't tell the codec, use --codec")

// codecName picks the codec from the configuration or the input file name.
func codecName(cfg config.Config, input string) (string, error) {
	if cfg.Codec != "" {
		return cfg.Codec, nil
	}
	if cfg.RTP != "" {
		return "", fmt.Errorf("%w: RTP carries no file extension", errNoCodec)
	}
	if name, ok := codec.ForFile(input); ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: %s", errNoCodec, input)
}

type rtpSource struct {
	*source.RTP
	conn net.PacketConn
}

func (r *rtpSource) Close() error {
	if lost := r.Lost(); lost > 0 {
		logger.Warnf("%d access units lost", lost)
	}
	return r.conn.Close()
}

func openSource(cfg config.Config, input, codecName string) (source.ReadCloser, error) {
	if cfg.RTP == "" {
		return source.Open(input)
	}

	conn, err := net.ListenPacket("udp", cfg.RTP)
	if err != nil {
		return nil, err
	}
	r, err := source.NewRTP(conn, codecName)
	if err != nil {
		conn.Close()
		return nil, err
	}
	logger.Infof("receiving %s over RTP on %s", codecName, conn.LocalAddr())
	return &rtpSource{RTP: r, conn: conn}, nil
}

// run decodes input, or the RTP stream of cfg, on hw and dumps the pictures
// into cfg.OutputDir.
func run(ctx context.Context, cfg config.Config, input string, hw g1.Hardware, prog *progress) error {
	name, err := codecName(cfg, input)
	if err != nil {
		return err
	}
	builder, err := cfg.Builder(name)
	if err != nil {
		return err
	}
	adapter, err := builder.BuildAdapter()
	if err != nil {
		return err
	}

	opts, err := cfg.SessionOptions()
	if err != nil {
		return err
	}
	if w := cfg.OutputWindow; w != nil {
		a, err := memalloc.OpenBusWindow(w.Address, w.Size)
		if err != nil {
			return err
		}
		defer a.Close()
		opts.OutputAllocator = a
	}
	if cfg.UseHardwareAddress {
		opts.Registry = &memalloc.AddressRegistry{}
		opts.Registry.Register(cfg.ScanoutAddress)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := &frameWriter{
		dir:      cfg.OutputDir,
		max:      cfg.MaxFrames,
		progress: prog,
		full:     cancel,
	}

	var (
		sink   decoder.Sink
		reader *video.SinkReader
	)
	if cfg.UseHardwareAddress {
		// Pictures land in the scan-out buffer, there is nothing to dump.
		sink = decoder.SinkFunc(w.count)
	} else {
		reader = video.NewSinkReader(cfg.Queue)
		sink = reader
	}

	s, err := decoder.NewSession(hw, adapter, sink, opts)
	if err != nil {
		return err
	}
	if err := cfg.ApplyPP(s.PP()); err != nil {
		return err
	}
	if err := s.Open(); err != nil {
		return err
	}
	defer s.Close()

	src, err := openSource(cfg, input, name)
	if err != nil {
		return err
	}
	defer src.Close()
	// Unblocks a pending read, the RTP socket in particular.
	stop := context.AfterFunc(ctx, func() { src.Close() })
	defer stop()

	if source.SetFrameRate(src, cfg.FrameRate) {
		logger.Debugf("timestamping at %v fps", cfg.FrameRate)
	}
	s.SetCodecData(source.CodecData(src))

	errc := make(chan error, 1)
	if reader != nil {
		transform := video.Merge(
			video.DetectChanges(func(p video.Property) {
				logger.Infof("output %dx%d", p.Width, p.Height)
			}),
			dumpScale(cfg.DumpSize),
		)
		go func() {
			errc <- w.writeAll(transform(reader))
		}()
	}

	start := time.Now()
	err = pump(ctx, s, src)
	if reader != nil {
		reader.Close()
		if werr := <-errc; err == nil {
			err = werr
		}
		if dropped := reader.Dropped(); dropped > 0 {
			logger.Warnf("%d pictures dropped, the writer is too slow", dropped)
		}
	}
	prog.finish(w.written())

	stats := s.Stats()
	logger.Infof("%d access units, %d pictures, %d stream errors in %v (decoding %v)",
		stats.AccessUnits, stats.Pictures, stats.StreamErrors,
		time.Since(start).Round(time.Millisecond), stats.DecodeTime.Round(time.Millisecond))
	return err
}

func dumpScale(size *config.SizeConfig) video.TransformFunc {
	if size == nil {
		return nil
	}
	return video.Scale(size.Width, size.Height, video.ScalerBiLinear)
}

// pump feeds src to s until the stream ends or ctx is done. Only fatal
// decoder errors end the stream early.
func pump(ctx context.Context, s *decoder.Session, src source.Reader) error {
	for ctx.Err() == nil {
		au, err := src.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := s.HandleInput(au); err != nil {
			if decoder.IsFatal(err) {
				return err
			}
			logger.Warnf("%v", err)
		}
	}
	return nil
}
