package ts

import (
	"sort"
	"sync"
)

// Module is one stage in a device's processing chain. Read and ReadMulti
// return the number of samples produced; zero or negative values are
// status, not an error. Input modules sit at the bottom of the chain and
// pull nothing further.
type Module interface {
	// Read fills at most samp[0] with a single-contact sample.
	Read(samp []Sample) int
	// ReadMulti fills out with up to len(out) multi-contact samples.
	ReadMulti(out []Sample) int
	// Close releases the module's resources. Safe to call more than once.
	Close() error
}

// InitFunc builds a module instance for dev from a raw parameter string.
type InitFunc func(dev *Device, params string) (Module, error)

var (
	modulesMu sync.RWMutex
	modules   = make(map[string]InitFunc)
)

// RegisterModule makes a module available to Device.Attach under name.
// Modules call it from an init function, like database/sql drivers.
// It panics if fn is nil or name is already taken.
func RegisterModule(name string, fn InitFunc) {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	if fn == nil {
		panic("ts: RegisterModule with nil init function")
	}
	if _, dup := modules[name]; dup {
		panic("ts: RegisterModule called twice for module " + name)
	}
	modules[name] = fn
}

// ModuleNames returns the registered module names, sorted.
func ModuleNames() []string {
	modulesMu.RLock()
	defer modulesMu.RUnlock()
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupModule(name string) (InitFunc, bool) {
	modulesMu.RLock()
	defer modulesMu.RUnlock()
	fn, ok := modules[name]
	return fn, ok
}
