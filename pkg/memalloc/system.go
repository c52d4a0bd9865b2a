package memalloc

// SystemAllocator hands out ordinary Go memory. The hardware can't address
// it, so buffers from it are copied before decoding.
type SystemAllocator struct{}

func (SystemAllocator) Name() string {
	return "system"
}

func (SystemAllocator) Contiguous() bool {
	return false
}

func (a SystemAllocator) Alloc(size int, p Params) (*Memory, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return newMemory(a, make([]byte, p.total(size)), 0, size, p, nil), nil
}

func (SystemAllocator) Free(m *Memory) {
	if m != nil {
		m.markFreed()
	}
}

// Wrap returns data as system Memory without copying.
func Wrap(data []byte) *Memory {
	return newMemory(SystemAllocator{}, data, 0, len(data), Params{}, nil)
}
