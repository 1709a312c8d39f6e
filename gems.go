package rbridge

import (
	"sort"
	"sync"
)

// OpenFunc opens interop backend with given config
type OpenFunc func(conf Config) (Interop, error)

var (
	backendsMu sync.Mutex
	backends   = make(map[string]OpenFunc)
)

// Register makes a backend available by the provided name.
// If Register is called twice with the same name it panics.
func Register(name string, open OpenFunc) {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	if name == "" {
		panic("error - empty name not allowed")
	}
	if open == nil {
		panic("backend register called with nil open func for " + name)
	}
	if _, dup := backends[name]; dup {
		panic("backend register called twice for backend " + name)
	}
	backends[name] = open
}

// BackendExists checks if backend was registered
func BackendExists(name string) bool {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	_, exists := backends[name]
	return exists
}

// Backends returns sorted names of registered backends
func Backends() []string {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	ret := make([]string, 0, len(backends))
	for name := range backends {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Open opens registered backend and returns state over it
func Open(name string, conf Config) (*State, error) {
	backendsMu.Lock()
	open, exists := backends[name]
	backendsMu.Unlock()

	if !exists {
		return nil, Raisef(ErrUnknownBackend, "unknown backend %q (forgotten import?)", name)
	}

	ip, err := open(conf)
	if err != nil {
		return nil, err
	}

	st := New(ip)
	st.SetTrace(conf.Trace)
	return st, nil
}
