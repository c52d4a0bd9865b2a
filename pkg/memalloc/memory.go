package memalloc

import "sync/atomic"

// Memory is one allocation. The bus address stays valid until Free.
type Memory struct {
	allocator Allocator
	data      []byte
	offset    int
	size      int
	bus       uint32
	handle    interface{}
	freed     atomic.Bool
}

func newMemory(a Allocator, data []byte, bus uint32, size int, p Params, handle interface{}) *Memory {
	return &Memory{
		allocator: a,
		data:      data,
		offset:    p.Prefix,
		size:      size,
		bus:       bus,
		handle:    handle,
	}
}

// Map returns the usable bytes. The memory is always resident so mapping
// never blocks.
func (m *Memory) Map() []byte {
	return m.data[m.offset : m.offset+m.size : m.offset+m.size]
}

// Unmap ends a Map. It exists to pair with Map and does nothing.
func (m *Memory) Unmap() {}

// Physical returns the bus address of the first usable byte.
func (m *Memory) Physical() uint32 {
	return m.bus + uint32(m.offset)
}

// Size returns the number of usable bytes.
func (m *Memory) Size() int {
	return m.size
}

// Allocator returns the allocator m came from.
func (m *Memory) Allocator() Allocator {
	return m.allocator
}

// Contiguous reports whether the hardware can address m directly.
func (m *Memory) Contiguous() bool {
	return m.allocator != nil && m.allocator.Contiguous()
}

// Free returns m to its allocator. Calling Free more than once is a no-op.
func (m *Memory) Free() {
	if m.allocator == nil {
		return
	}
	m.allocator.Free(m)
}

// markFreed reports whether this call is the one that frees m.
func (m *Memory) markFreed() bool {
	return m.freed.CompareAndSwap(false, true)
}
