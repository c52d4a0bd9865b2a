// Package memalloc provides hardware addressable memory for the G1 decoder.
//
// Every Memory exposes a CPU view of its bytes and the bus address the
// decoder and post-processor use to reach the same bytes. Allocations are
// drawn from an Allocator owned by the pipeline that created it.
package memalloc

import (
	"errors"

	"github.com/pion/hantro/internal/logging"
)

var logger = logging.NewLogger("hantro/memalloc")

var (
	// ErrNoMemory is returned when the backing region can't satisfy a request.
	ErrNoMemory = errors.New("memalloc: out of memory")
	// ErrInvalidSize is returned for zero or negative allocation sizes.
	ErrInvalidSize = errors.New("memalloc: invalid size")
)

// Flags describe requirements on an allocation.
type Flags uint32

const (
	// FlagPhysicallyContiguous requests memory the hardware can address directly.
	FlagPhysicallyContiguous Flags = 1 << iota
	// FlagZero requests zeroed memory.
	FlagZero
)

// Params controls the layout of an allocation. Prefix bytes are reserved in
// front of the usable region and Padding bytes after it.
type Params struct {
	Prefix  int
	Padding int
	Flags   Flags
}

func (p Params) total(size int) int {
	return p.Prefix + size + p.Padding
}

// Allocator hands out Memory.
type Allocator interface {
	// Name identifies the allocator in logs and allocation queries.
	Name() string
	// Alloc returns memory of at least size usable bytes.
	Alloc(size int, p Params) (*Memory, error)
	// Free releases m. m must have been returned by this allocator.
	Free(m *Memory)
	// Contiguous reports whether allocations are hardware addressable.
	Contiguous() bool
}

// CopyFrom allocates len(data) bytes from a and copies data into them.
func CopyFrom(a Allocator, data []byte, p Params) (*Memory, error) {
	m, err := a.Alloc(len(data), p)
	if err != nil {
		return nil, err
	}
	copy(m.Map(), data)
	m.Unmap()
	return m, nil
}
