package memalloc

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultAlignment is the block alignment of a Region when none is given.
const DefaultAlignment = 4096

type span struct {
	off, len int
}

// Region is a first-fit Linear backend over a fixed block of memory that
// starts at a known bus address. It backs the software hardware model and
// platforms where a reserved carveout is mapped by the application itself.
type Region struct {
	mu    sync.Mutex
	buf   []byte
	base  uint32
	align int
	free  []span
	used  map[int]int
}

// NewRegion manages buf, whose first byte is at bus address base. Block
// sizes are rounded up to align bytes.
func NewRegion(base uint32, buf []byte, align int) *Region {
	if align <= 0 {
		align = DefaultAlignment
	}
	return &Region{
		buf:   buf,
		base:  base,
		align: align,
		free:  []span{{0, len(buf)}},
		used:  make(map[int]int),
	}
}

// MallocLinear implements Linear.
func (r *Region) MallocLinear(size int) (LinearMemory, error) {
	if size <= 0 {
		return LinearMemory{}, ErrInvalidSize
	}
	n := (size + r.align - 1) / r.align * r.align

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.free {
		if s.len < n {
			continue
		}
		if s.len == n {
			r.free = append(r.free[:i], r.free[i+1:]...)
		} else {
			r.free[i] = span{s.off + n, s.len - n}
		}
		r.used[s.off] = n
		return LinearMemory{
			Virtual: r.buf[s.off : s.off+n : s.off+n],
			Bus:     r.base + uint32(s.off),
		}, nil
	}

	return LinearMemory{}, fmt.Errorf("%w: no free block of %d bytes", ErrNoMemory, n)
}

// FreeLinear implements Linear. Unknown blocks are ignored.
func (r *Region) FreeLinear(mem LinearMemory) {
	off := int(mem.Bus - r.base)

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.used[off]
	if !ok {
		logger.Warnf("region: free of unknown block at %#x", mem.Bus)
		return
	}
	delete(r.used, off)

	i := sort.Search(len(r.free), func(i int) bool { return r.free[i].off > off })
	r.free = append(r.free, span{})
	copy(r.free[i+1:], r.free[i:])
	r.free[i] = span{off, n}

	// merge with the following block, then with the preceding one
	if i+1 < len(r.free) && r.free[i].off+r.free[i].len == r.free[i+1].off {
		r.free[i].len += r.free[i+1].len
		r.free = append(r.free[:i+1], r.free[i+2:]...)
	}
	if i > 0 && r.free[i-1].off+r.free[i-1].len == r.free[i].off {
		r.free[i-1].len += r.free[i].len
		r.free = append(r.free[:i], r.free[i+1:]...)
	}
}

// Available returns the number of free bytes.
func (r *Region) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, s := range r.free {
		n += s.len
	}
	return n
}

// Capacity returns the size of the region.
func (r *Region) Capacity() int {
	return len(r.buf)
}

// Slice returns the n bytes of the region starting at bus address bus, or
// nil if they aren't all inside the region.
func (r *Region) Slice(bus uint32, n int) []byte {
	if bus < r.base {
		return nil
	}
	off := int(bus - r.base)
	if n < 0 || off+n > len(r.buf) {
		return nil
	}
	return r.buf[off : off+n : off+n]
}
