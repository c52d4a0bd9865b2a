// Package codec keeps the registry of G1 codec adapters.
//
// Every adapter package registers its default Params under the codec name
// in init, so a blank import makes the codec available to Build.
package codec

import "github.com/pion/hantro/pkg/decoder"

// Builder builds codec adapters. Adapter specific Params implement it.
type Builder interface {
	// BuildAdapter returns a new adapter configured with the receiver.
	BuildAdapter() (decoder.Adapter, error)
}

// BuilderFunc adapts a function to a Builder.
type BuilderFunc func() (decoder.Adapter, error)

func (f BuilderFunc) BuildAdapter() (decoder.Adapter, error) {
	return f()
}
