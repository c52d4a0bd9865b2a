package pp

import "fmt"

// Optional is a value that may be left unset. Setters only touch the fields
// whose Optional is set.
type Optional[T any] struct {
	v   T
	set bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{v: v, set: true}
}

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.v, o.set
}

// IsSet reports whether o holds a value.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Or returns the value, or def when o is unset.
func (o Optional[T]) Or(def T) T {
	if o.set {
		return o.v
	}
	return def
}

func (o Optional[T]) String() string {
	if !o.set {
		return "unset"
	}
	return fmt.Sprint(o.v)
}
