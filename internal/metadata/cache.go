package metadata

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/rpc"
)

// Fetcher is the subset of the chain façade (C1) the cache needs to
// refresh itself: runtime version lookup and raw metadata fetch.
type Fetcher interface {
	GetRuntimeVersion(ctx context.Context, at chain.Hash) (rpc.RuntimeVersion, error)
	GetRawMetadata(ctx context.Context, at chain.Hash) ([]byte, error)
}

// Cache is the metadata cache (C3): keyed by spec version, single
// writer (swap-in of a freshly decoded version) and many concurrent
// readers. A stable version already in the cache is never blocked by
// a refresh for a different version.
type Cache struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu      sync.RWMutex
	byVersion map[uint32]*Metadata
	latest    uint32
}

// NewCache builds an empty cache bound to a chain façade.
func NewCache(fetcher Fetcher, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		fetcher:   fetcher,
		logger:    logger,
		byVersion: make(map[uint32]*Metadata),
	}
}

// At returns the metadata active at a block, fetching and decoding it
// on a cache miss. Readers of an already-cached version never block
// behind a refresh for a different version.
func (c *Cache) At(ctx context.Context, at chain.Hash) (*Metadata, error) {
	rv, err := c.fetcher.GetRuntimeVersion(ctx, at)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	if md, ok := c.byVersion[rv.SpecVersion]; ok {
		c.mu.RUnlock()
		return md, nil
	}
	c.mu.RUnlock()

	raw, err := c.fetcher.GetRawMetadata(ctx, at)
	if err != nil {
		return nil, err
	}
	md, err := Decode(raw, rv.SpecVersion, rv.SpecName)
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "decode runtime metadata", err)
	}

	c.mu.Lock()
	c.byVersion[rv.SpecVersion] = md
	if rv.SpecVersion > c.latest {
		c.latest = rv.SpecVersion
	}
	c.mu.Unlock()

	c.logger.Info("cached new runtime metadata version", zap.Uint32("specVersion", rv.SpecVersion))
	return md, nil
}

// CheckForSpecBump loads the metadata for the finalized head's spec
// version when that version is not cached yet. It can be called from
// a background poller; a missed
// call simply means the next At() call pays the decode cost inline.
func (c *Cache) CheckForSpecBump(ctx context.Context, finalized chain.Hash) error {
	_, err := c.At(ctx, finalized)
	return err
}

// Versions returns the spec versions currently resident in the cache,
// for diagnostics.
func (c *Cache) Versions() []uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]uint32, 0, len(c.byVersion))
	for v := range c.byVersion {
		out = append(out, v)
	}
	return out
}
