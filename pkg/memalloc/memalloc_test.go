package memalloc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearAllocatorPrefix(t *testing.T) {
	const base = 0x20000000
	r := NewRegion(base, make([]byte, 16*1024), 4096)
	a := NewLinearAllocator("dwl", r)

	m, err := a.Alloc(100, Params{Prefix: 16, Padding: 8, Flags: FlagZero})
	require.NoError(t, err)
	defer m.Free()

	assert.Equal(t, 100, m.Size())
	assert.Len(t, m.Map(), 100)
	assert.Equal(t, uint32(base+16), m.Physical())
	assert.True(t, m.Contiguous())
	assert.Equal(t, Allocator(a), m.Allocator())
}

func TestLinearAllocatorDoubleFree(t *testing.T) {
	r := NewRegion(0, make([]byte, 8*4096), 4096)
	a := NewLinearAllocator("dwl", r)

	m, err := a.Alloc(4096, Params{})
	require.NoError(t, err)
	other, err := a.Alloc(4096, Params{})
	require.NoError(t, err)

	m.Free()
	m.Free()
	assert.Equal(t, 7*4096, r.Available())

	other.Free()
	assert.Equal(t, 8*4096, r.Available())
}

func TestLinearAllocatorExhausted(t *testing.T) {
	a := NewLinearAllocator("dwl", NewRegion(0, make([]byte, 4096), 4096))

	_, err := a.Alloc(8192, Params{})
	assert.True(t, errors.Is(err, ErrNoMemory), "expected ErrNoMemory, got %v", err)

	_, err = a.Alloc(0, Params{})
	assert.Equal(t, ErrInvalidSize, err)
}

func TestBusAllocatorAliases(t *testing.T) {
	window := make([]byte, 1024)
	a := NewBusAllocator(window, 0x40000000)

	m1, err := a.Alloc(512, Params{})
	require.NoError(t, err)
	m2, err := a.Alloc(256, Params{})
	require.NoError(t, err)

	assert.Equal(t, m1.Physical(), m2.Physical())
	m1.Map()[0] = 0x5A
	assert.Equal(t, byte(0x5A), m2.Map()[0])

	_, err = a.Alloc(1025, Params{})
	assert.True(t, errors.Is(err, ErrNoMemory))

	_, err = a.Alloc(1000, Params{Padding: 100})
	assert.True(t, errors.Is(err, ErrNoMemory))

	m1.Free()
	m2.Free()
	assert.NoError(t, a.Close())
}

func TestSystemAllocator(t *testing.T) {
	var a SystemAllocator
	m, err := a.Alloc(10, Params{})
	require.NoError(t, err)
	assert.False(t, m.Contiguous())

	w := Wrap([]byte("abc"))
	assert.False(t, w.Contiguous())
	assert.Equal(t, []byte("abc"), w.Map())
}

func TestCopyFrom(t *testing.T) {
	a := NewLinearAllocator("dwl", NewRegion(0, make([]byte, 4096), 4096))
	data := []byte("access unit")

	m, err := CopyFrom(a, data, Params{Flags: FlagPhysicallyContiguous})
	require.NoError(t, err)
	defer m.Free()

	if !bytes.Equal(m.Map(), data) {
		t.Errorf("expected %q, got %q", data, m.Map())
	}
}

func TestAddressRegistry(t *testing.T) {
	var r AddressRegistry

	_, ok := r.Lookup()
	assert.False(t, ok)

	r.Register(0x1000)
	addr, ok := r.Lookup()
	assert.True(t, ok)
	assert.Equal(t, uint32(0x1000), addr)

	r.Clear()
	_, ok = r.Lookup()
	assert.False(t, ok)
}
