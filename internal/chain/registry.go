package chain

import (
	"fmt"
	"sync"
)

// HandlerSet is the set of endpoint groups a given chain Type exposes.
// The gateway never branches on chain type inside a handler body
// (spec.md §9 Design Notes); instead, at startup, the registry decides
// which handler sets a connected chain activates.
type HandlerSet struct {
	// Name identifies the handler set for logging/introspection.
	Name string
	// Blocks enables the block/extrinsic/range endpoints (C9).
	Blocks bool
	// Correlation enables RC<->AH correlation endpoints (C10/C11);
	// only meaningful for TypeAssetHub with a configured relay peer,
	// or TypeRelay itself.
	Correlation bool
}

// Registry maps chain types to the handler sets they activate. It is
// single-writer (populated once at startup via Register/MustRegister)
// and many-reader thereafter, matching the concurrency shape of the
// metadata cache (C3).
type Registry struct {
	mu   sync.RWMutex
	sets map[Type]HandlerSet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[Type]HandlerSet)}
}

// Register associates a HandlerSet with a chain Type.
func (r *Registry) Register(t Type, set HandlerSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sets[t]; exists {
		return fmt.Errorf("chain type %s is already registered", t)
	}
	r.sets[t] = set
	return nil
}

// MustRegister is Register, panicking on error; intended for use in
// package-level init wiring where a duplicate registration is a bug.
func (r *Registry) MustRegister(t Type, set HandlerSet) {
	if err := r.Register(t, set); err != nil {
		panic(err)
	}
}

// HandlersFor returns the handler set for a chain type, and whether one
// was registered at all.
func (r *Registry) HandlersFor(t Type) (HandlerSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.sets[t]
	return set, ok
}

// Default returns the registry the gateway wires at startup: block
// endpoints everywhere, correlation endpoints only where the spec
// requires them (Asset Hub and relay chains).
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(TypeRelay, HandlerSet{Name: "relay", Blocks: true, Correlation: true})
	r.MustRegister(TypeAssetHub, HandlerSet{Name: "asset-hub", Blocks: true, Correlation: true})
	r.MustRegister(TypeParachain, HandlerSet{Name: "parachain", Blocks: true, Correlation: false})
	r.MustRegister(TypeCoretime, HandlerSet{Name: "coretime", Blocks: true, Correlation: false})
	return r
}
