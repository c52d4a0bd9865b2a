package memalloc

import "sync/atomic"

// AddressRegistry publishes the bus address of a scan-out buffer owned by a
// display sink. Decoder sessions configured for hardware addressing write
// their output there instead of into allocator memory.
type AddressRegistry struct {
	addr atomic.Uint32
	set  atomic.Bool
}

// Register records the scan-out bus address.
func (r *AddressRegistry) Register(bus uint32) {
	r.addr.Store(bus)
	r.set.Store(true)
}

// Clear forgets the registered address.
func (r *AddressRegistry) Clear() {
	r.set.Store(false)
}

// Lookup returns the registered address, if any.
func (r *AddressRegistry) Lookup() (uint32, bool) {
	if !r.set.Load() {
		return 0, false
	}
	return r.addr.Load(), true
}
