package lensing

import (
	"fmt"
	"sort"
	"sync"
)

var (
	backendsMu sync.RWMutex
	backends   = map[string]Backend{}
)

// Register makes a backend available by name. It panics if b is nil or the
// name is already taken.
func Register(b Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if b == nil {
		panic("lensing: Register backend is nil")
	}
	name := b.Name()
	if _, dup := backends[name]; dup {
		panic("lensing: Register called twice for backend " + name)
	}
	backends[name] = b
}

// Lookup returns the named backend. An empty name selects the only registered
// backend when exactly one exists.
func Lookup(name string) (Backend, error) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	if name == "" {
		switch len(backends) {
		case 0:
			return nil, fmt.Errorf("%w: no backend registered", ErrDependencyMissing)
		case 1:
			for _, b := range backends {
				return b, nil
			}
		default:
			return nil, fmt.Errorf("%w: several backends registered (%v), set one explicitly", ErrDependencyMissing, namesLocked())
		}
	}
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: backend %q is not registered", ErrDependencyMissing, name)
	}
	return b, nil
}

// Backends lists registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	out := make([]string, 0, len(backends))
	for n := range backends {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
