package memalloc

import "fmt"

// BusAllocator hands out a single pre-mapped bus memory window. Every
// allocation aliases the start of the window, so at most one allocation may
// hold live contents at a time. It is meant for bring-up and for sinks that
// scan out of a fixed physical address.
type BusAllocator struct {
	window []byte
	bus    uint32
	closer func() error
}

// NewBusAllocator serves allocations from window, located at bus address bus.
func NewBusAllocator(window []byte, bus uint32) *BusAllocator {
	return &BusAllocator{
		window: window,
		bus:    bus,
	}
}

func (a *BusAllocator) Name() string {
	return "bus"
}

func (a *BusAllocator) Contiguous() bool {
	return true
}

func (a *BusAllocator) Alloc(size int, p Params) (*Memory, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	total := p.total(size)
	if total > len(a.window) {
		return nil, fmt.Errorf("%w: %d bytes exceed the %d byte bus window", ErrNoMemory, total, len(a.window))
	}

	if p.Flags&FlagZero != 0 {
		clear(a.window[:total])
	}
	return newMemory(a, a.window[:total:total], a.bus, size, p, nil), nil
}

// Free does nothing: the window outlives its allocations.
func (a *BusAllocator) Free(m *Memory) {
	if m != nil {
		m.markFreed()
	}
}

// Close unmaps the window if it was mapped by OpenBusWindow.
func (a *BusAllocator) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	a.window = nil
	return err
}
