package memalloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const devMem = "/dev/mem"

// OpenBusWindow maps size bytes of physical memory starting at bus through
// /dev/mem and returns an allocator over them.
func OpenBusWindow(bus uint32, size int) (*BusAllocator, error) {
	fd, err := unix.Open(devMem, unix.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("memalloc: open %s: %w", devMem, err)
	}
	defer unix.Close(fd)

	window, err := unix.Mmap(fd, int64(bus), size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("memalloc: mmap %d bytes at %#x: %w", size, bus, err)
	}

	a := NewBusAllocator(window, bus)
	a.closer = func() error {
		return unix.Munmap(window)
	}
	return a, nil
}
