// Package native binds the Hantro G1 vendor libraries (libdecx170h,
// libdecx170m, libdecx170v, libx170j, libdecx170p and libdwlx170).
// It is only built with the g1 build tag; without it Open reports
// ErrNotSupported.
package native

import (
	"errors"

	"github.com/pion/hantro/internal/logging"
	"github.com/pion/hantro/pkg/g1"
)

// ErrNotSupported is returned by Open when the binary was built without
// the vendor libraries.
var ErrNotSupported = errors.New("native: G1 hardware is not supported on this build")

var logger = logging.NewLogger("hantro/native")

// Device is the G1 core of the running board.
type Device interface {
	g1.Hardware
	// Close releases the driver wrapper layer. Every instance must be
	// released before.
	Close() error
}
