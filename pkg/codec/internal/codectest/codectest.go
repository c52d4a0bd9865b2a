// Package codectest provides shared test for codec adapters.
package codectest

import (
	"errors"
	"sync"
	"testing"

	"github.com/pion/hantro/pkg/codec"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/g1/g1test"
)

const regionSize = 1 << 22

// NewHardware returns a scripted G1 with enough memory for a few 1080p
// pictures.
func NewHardware() *g1test.Hardware {
	return g1test.New(regionSize)
}

// Collector is a decoder.Sink keeping every picture it is given.
type Collector struct {
	mu       sync.Mutex
	Pictures []*decoder.Picture
}

func (c *Collector) Push(p *decoder.Picture) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Pictures = append(c.Pictures, p)
	return nil
}

// Release releases every collected picture.
func (c *Collector) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.Pictures {
		p.Release()
	}
	c.Pictures = nil
}

// OpenSession builds an adapter with b and opens a session on hw. The
// session is closed and the pictures released when the test ends.
func OpenSession(t *testing.T, hw *g1test.Hardware, b codec.Builder, opts decoder.Options) (*decoder.Session, *Collector) {
	t.Helper()

	a, err := b.BuildAdapter()
	if err != nil {
		t.Fatal(err)
	}
	c := &Collector{}
	s, err := decoder.NewSession(hw, a, c, opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		c.Release()
		s.Close()
	})
	return s, c
}

func assertNoPanic(t *testing.T, fn func() error, msg string) error {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("panic: %v: %s", r, msg)
		}
	}()
	return fn()
}

// AdapterCloseTwiceTest closes an adapter before it is opened and twice
// after.
func AdapterCloseTwiceTest(t *testing.T, b codec.Builder) {
	hw := g1test.New(regionSize)
	a, err := b.BuildAdapter()
	if err != nil {
		t.Fatal(err)
	}

	if err := assertNoPanic(t, a.Close, "on Close() before Open()"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Open(hw); err != nil {
		t.Fatal(err)
	}
	if err := assertNoPanic(t, a.Close, "on first Close()"); err != nil {
		t.Fatal(err)
	}
	if err := assertNoPanic(t, a.Close, "on second Close()"); err != nil {
		t.Fatal(err)
	}
	if n := hw.OpenInstances(); n != 0 {
		t.Errorf("expected every instance to be released, %d still open", n)
	}
}

// OpenRollbackTest fails the creation of the codec instance and checks
// that the session leaves nothing open.
func OpenRollbackTest(t *testing.T, b codec.Builder) {
	hw := g1test.New(regionSize)
	hw.NewCodecErr = errors.New("no codec instance")

	a, err := b.BuildAdapter()
	if err != nil {
		t.Fatal(err)
	}
	s, err := decoder.NewSession(hw, a, nil, decoder.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Open(); !errors.Is(err, hw.NewCodecErr) {
		t.Fatalf("expected %v, got %v", hw.NewCodecErr, err)
	}
	if s.State() != decoder.StateClosed {
		t.Errorf("expected %s, got %s", decoder.StateClosed, s.State())
	}
	if n := hw.OpenInstances(); n != 0 {
		t.Errorf("expected no open instance, %d still open", n)
	}
}

// UnhandledCodeTest expects a decode call to panic once script has made
// the codec return a code no adapter expects.
func UnhandledCodeTest(t *testing.T, b codec.Builder, script func(hw *g1test.Hardware)) {
	hw := g1test.New(regionSize)
	script(hw)

	a, err := b.BuildAdapter()
	if err != nil {
		t.Fatal(err)
	}
	s, err := decoder.NewSession(hw, a, nil, decoder.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected a panic on an unhandled return code")
		}
	}()
	s.HandleInput(decoder.AccessUnit{Data: []byte{0, 0, 0, 1}})
}
