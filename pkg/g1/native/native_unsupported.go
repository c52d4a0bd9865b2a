//go:build !g1

package native

// Open reports ErrNotSupported.
func Open() (Device, error) {
	return nil, ErrNotSupported
}
