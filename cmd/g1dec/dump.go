package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/image/bmp"

	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/io/video"
)

// frameWriter writes pictures as numbered BMP files. full is called once
// max pictures were written.
type frameWriter struct {
	dir      string
	max      int
	progress *progress
	full     func()

	mu sync.Mutex
	n  int
}

func (w *frameWriter) written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// next reserves the next frame number. ok is false once max is reached.
func (w *frameWriter) next() (n int, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.max > 0 && w.n >= w.max {
		return 0, false
	}
	n = w.n
	w.n++
	if w.max > 0 && w.n == w.max {
		w.full()
	}
	w.progress.update(w.n)
	return n, true
}

// count is a decoder.Sink for pictures that are not dumped.
func (w *frameWriter) count(p *decoder.Picture) error {
	p.Release()
	w.next()
	return nil
}

// writeAll dumps every image of r until r is drained. Images past max are
// released unwritten.
func (w *frameWriter) writeAll(r video.Reader) error {
	for {
		img, release, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			w.full()
			return err
		}

		n, ok := w.next()
		if ok {
			err = w.write(n, img)
		}
		release()
		if err != nil {
			w.full()
			return err
		}
	}
}

func (w *frameWriter) write(n int, img image.Image) error {
	path := filepath.Join(w.dir, fmt.Sprintf("frame-%05d.bmp", n))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// progress prints a frame counter on terminals.
type progress struct {
	w   io.Writer
	tty bool
}

func newProgress(f *os.File) *progress {
	return &progress{
		w:   f,
		tty: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()),
	}
}

func (p *progress) update(n int) {
	if p.tty {
		fmt.Fprintf(p.w, "\r%d frames", n)
	}
}

func (p *progress) finish(n int) {
	if p.tty {
		fmt.Fprintf(p.w, "\r%d frames\n", n)
	}
}
