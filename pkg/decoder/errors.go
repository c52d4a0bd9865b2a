package decoder

import (
	"errors"
	"fmt"
)

var (
	// ErrNotOpen is returned when a session is used before Open.
	ErrNotOpen = errors.New("decoder: session not open")
	// ErrFailed is returned after a fatal error until the session is reopened.
	ErrFailed = errors.New("decoder: session failed, close and reopen it")
	// ErrClosed is returned by sinks that no longer accept pictures.
	ErrClosed = errors.New("decoder: closed")
	// ErrInvalidState is returned for a state change the session can't make.
	ErrInvalidState = errors.New("decoder: invalid state")
	// ErrNotContiguous is returned when output memory isn't hardware addressable.
	ErrNotContiguous = errors.New("decoder: output memory is not physically contiguous")
	// ErrNoAddress is returned when no scan-out address is registered.
	ErrNoAddress = errors.New("decoder: no scan-out address registered")
	// ErrLoopLimit is returned when a decode loop doesn't settle.
	ErrLoopLimit = errors.New("decoder: decode loop limit reached")
)

// Kind classifies a decode error.
type Kind int

const (
	// KindNone is the kind of errors carrying no classification.
	KindNone Kind = iota
	// KindResource means memory or buffers ran out. The caller may retry or
	// drop the access unit.
	KindResource
	// KindConfig means the hardware rejected a configuration. Only the
	// current call fails.
	KindConfig
	// KindStream means the bitstream was corrupt or unsupported. Decoding
	// continues with the next access unit.
	KindStream
	// KindFatal means the hardware or its driver failed. The session must be
	// closed and opened again.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindConfig:
		return "config"
	case KindStream:
		return "stream"
	case KindFatal:
		return "fatal"
	default:
		return "unclassified"
	}
}

// Error is a classified decode error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decoder: %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindNone when err isn't an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

// IsFatal reports whether err requires the session to be reopened.
func IsFatal(err error) bool {
	return KindOf(err) == KindFatal
}

// fataler is implemented by hardware return codes.
type fataler interface {
	Fatal() bool
}

// NewError classifies a hardware return code. Codes reporting a hardware
// failure are fatal, every other code gets kind.
func NewError(op string, kind Kind, code error) *Error {
	if f, ok := code.(fataler); ok && f.Fatal() {
		kind = KindFatal
	}
	return &Error{Kind: kind, Op: op, Err: code}
}
