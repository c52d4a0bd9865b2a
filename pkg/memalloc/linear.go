package memalloc

import (
	"fmt"
	"sync"
)

// LinearMemory is a block handed out by a Linear backend.
type LinearMemory struct {
	Virtual []byte
	Bus     uint32
}

// Linear is a physically contiguous memory manager such as the DWL linear
// allocator of the G1 driver.
type Linear interface {
	MallocLinear(size int) (LinearMemory, error)
	FreeLinear(mem LinearMemory)
}

// LinearAllocator serializes access to a Linear backend and hands out Memory
// from it.
type LinearAllocator struct {
	name    string
	mu      sync.Mutex
	backend Linear
}

// NewLinearAllocator wraps backend. name is reported by Name.
func NewLinearAllocator(name string, backend Linear) *LinearAllocator {
	return &LinearAllocator{
		name:    name,
		backend: backend,
	}
}

func (a *LinearAllocator) Name() string {
	return a.name
}

func (a *LinearAllocator) Contiguous() bool {
	return true
}

func (a *LinearAllocator) Alloc(size int, p Params) (*Memory, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	total := p.total(size)

	a.mu.Lock()
	mem, err := a.backend.MallocLinear(total)
	a.mu.Unlock()
	if err != nil {
		logger.Debugf("%s: failed to allocate %d bytes: %v", a.name, total, err)
		return nil, fmt.Errorf("%w: %d bytes from %s: %v", ErrNoMemory, total, a.name, err)
	}
	if len(mem.Virtual) < total {
		a.mu.Lock()
		a.backend.FreeLinear(mem)
		a.mu.Unlock()
		return nil, fmt.Errorf("%w: %s returned %d bytes, need %d", ErrNoMemory, a.name, len(mem.Virtual), total)
	}

	if p.Flags&FlagZero != 0 {
		clear(mem.Virtual[:total])
	}

	return newMemory(a, mem.Virtual, mem.Bus, size, p, mem), nil
}

func (a *LinearAllocator) Free(m *Memory) {
	if m == nil || !m.markFreed() {
		return
	}

	mem, ok := m.handle.(LinearMemory)
	if !ok {
		panic(fmt.Sprintf("memalloc: %s can't free memory from %s", a.name, m.allocator.Name()))
	}

	a.mu.Lock()
	a.backend.FreeLinear(mem)
	a.mu.Unlock()
}
