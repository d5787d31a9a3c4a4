package chains

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps chain names to adapter factories. It is owned by whoever
// builds clients; there is no process-wide instance.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register registers a factory for a chain
// If a factory already exists for the chain, it will be replaced (idempotent)
func (r *Registry) Register(chain string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[chain] = factory
}

// New creates an adapter for the chain from a secret key
func (r *Registry) New(chain, secretKey string) (ChainAdapter, error) {
	r.mu.RLock()
	factory, exists := r.factories[chain]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}

	adapter, err := factory(secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s adapter: %w", chain, err)
	}
	return adapter, nil
}

// GetSupportedChains returns the registered chain names, sorted
func (r *Registry) GetSupportedChains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.factories))
}

// IsSupported checks if a chain is supported
func (r *Registry) IsSupported(chain string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[chain]
	return exists
}

// Unregister removes a chain factory (useful for testing)
func (r *Registry) Unregister(chain string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.factories, chain)
}
