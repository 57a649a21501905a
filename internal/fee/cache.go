package fee

import "sync"

// Cache answers "can payment_queryFeeDetails be called at this spec
// version" by consulting the static table first, then a process-
// lifetime, write-once-per-key runtime map (C8). Once a specVersion is
// learned at runtime, it never reverts: either the runtime exposes
// the RPC at that version or it doesn't, so a single negative or
// positive probe result is permanently reusable.
type Cache struct {
	mu      sync.RWMutex
	learned map[cacheKey]bool
}

type cacheKey struct {
	specName    string
	specVersion uint32
}

// NewCache builds an empty runtime-learned cache; the static table is
// package-level and needs no construction.
func NewCache() *Cache {
	return &Cache{learned: make(map[cacheKey]bool)}
}

// IsAvailable reports whether queryFeeDetails is known available at
// (specName, specVersion): Some(true)/Some(false) if known, nil if the
// caller must probe the runtime (spec.md §4.8).
func (c *Cache) IsAvailable(specName string, specVersion uint32) *bool {
	if cfg, ok := lookupChainFeeConfig(specName); ok {
		switch {
		case cfg.QueryFeeDetailsUnavailable != nil && specVersion <= *cfg.QueryFeeDetailsUnavailable:
			return boolPtr(false)
		case cfg.QueryFeeDetailsAvailable != nil && specVersion >= *cfg.QueryFeeDetailsAvailable:
			return boolPtr(true)
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.learned[cacheKey{specName, specVersion}]; ok {
		return boolPtr(v)
	}
	return nil
}

// SetAvailable records a runtime-probed result. A key already set is
// left unchanged — learning is monotone per spec.md §9 Open Question 1.
func (c *Cache) SetAvailable(specName string, specVersion uint32, available bool) {
	key := cacheKey{specName, specVersion}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.learned[key]; exists {
		return
	}
	c.learned[key] = available
}

func boolPtr(b bool) *bool { return &b }
