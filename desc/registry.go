package desc

import (
	"fmt"
	"sync"

	"github.com/arloliu/asn1codec/internal/hash"
)

// Registry maps a string key (typically a Go type's package-qualified name)
// to its built Descriptor, so callers can look a descriptor up once at
// startup and share it across every encode/decode call. Registry is safe
// for concurrent use after construction; registration is expected to
// happen during init, lookups happen on the hot path.
type Registry struct {
	mu   sync.RWMutex
	byID map[uint64]*Descriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint64]*Descriptor)}
}

// Register adds d under key, returning an error if key is already taken.
func (r *Registry) Register(key string, d *Descriptor) error {
	id := hash.ID(key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("asn1codec: descriptor key %q already registered", key)
	}

	r.byID[id] = d

	return nil
}

// Lookup returns the descriptor registered under key, or nil and false.
func (r *Registry) Lookup(key string) (*Descriptor, bool) {
	id := hash.ID(key)

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]

	return d, ok
}

// MustLookup is like Lookup but panics if key is not registered. It is
// meant for package-init-time wiring where a missing descriptor is a
// programmer error, not a runtime condition.
func (r *Registry) MustLookup(key string) *Descriptor {
	d, ok := r.Lookup(key)
	if !ok {
		panic(fmt.Sprintf("asn1codec: descriptor key %q not registered", key))
	}

	return d
}
