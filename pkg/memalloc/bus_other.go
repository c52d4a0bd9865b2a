//go:build !linux

package memalloc

import "errors"

var errNotSupported = errors.New("memalloc: bus windows are only supported on linux")

// OpenBusWindow is only available on linux.
func OpenBusWindow(bus uint32, size int) (*BusAllocator, error) {
	return nil, errNotSupported
}
