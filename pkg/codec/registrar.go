package codec

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/g1"
)

var (
	mu         sync.RWMutex
	builders   = make(map[string]Builder)
	extensions = make(map[string]string)
)

// Register makes b available under name. Files with one of exts are
// decoded with it.
func Register(name string, b Builder, exts ...string) {
	mu.Lock()
	defer mu.Unlock()

	builders[name] = b
	for _, ext := range exts {
		extensions[strings.ToLower(ext)] = name
	}
}

// Build returns a new adapter of the named codec.
func Build(name string) (decoder.Adapter, error) {
	mu.RLock()
	b, ok := builders[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("codec: can't find %s adapter", name)
	}

	return b.BuildAdapter()
}

// BuildSession returns a closed session decoding the named codec.
func BuildSession(name string, hw g1.Hardware, sink decoder.Sink, opts decoder.Options) (*decoder.Session, error) {
	a, err := Build(name)
	if err != nil {
		return nil, err
	}

	return decoder.NewSession(hw, a, sink, opts)
}

// ForFile returns the codec registered for the extension of path.
func ForFile(path string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	name, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return name, ok
}

// Names returns the registered codec names in order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
