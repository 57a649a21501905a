package correlate

import (
	"context"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/constants"
	"github.com/subscale/rest-gateway/internal/extrinsic"
	"github.com/subscale/rest-gateway/internal/metadata"
)

// AssetHubToRelay decodes the given Asset Hub block's first inherent
// (ParachainSystem.set_validation_data) to learn the relay parent it
// validated against, then walks relay blocks forward from
// relay_parent_number+1 looking for the CandidateIncluded event that
// included this exact Asset Hub block (spec.md §4.10). maxDepth <= 0
// uses constants.DefaultMaxCorrelationDepth; values above
// constants.MaxCorrelationDepthCeiling are clamped. Returns (nil, nil)
// if no match is found within bounds.
func (c *Correlator) AssetHubToRelay(ctx context.Context, ah chain.BlockRef, resolver RelayResolver, maxDepth int) (*RcInclusion, error) {
	depth := maxDepth
	if depth <= 0 {
		depth = constants.DefaultMaxCorrelationDepth
	}
	if depth > constants.MaxCorrelationDepthCeiling {
		depth = constants.MaxCorrelationDepthCeiling
	}

	relayParentNumber, err := c.relayParentNumberOf(ctx, ah.Hash)
	if err != nil {
		return nil, err
	}

	for i := 0; i < depth; i++ {
		candidateNumber := relayParentNumber + 1 + uint64(i)
		relayHash, err := resolver.GetBlockHashAt(ctx, candidateNumber)
		if err != nil {
			if apierr.IsKind(err, apierr.NotFound) {
				break
			}
			return nil, err
		}

		ahBlocks, err := c.RelayToAssetHub(ctx, chain.BlockRef{Hash: relayHash, Number: candidateNumber})
		if err != nil {
			return nil, err
		}
		for _, b := range ahBlocks {
			if b.Hash == ah.Hash {
				return &RcInclusion{Hash: relayHash, Number: candidateNumber}, nil
			}
		}
	}
	return nil, nil
}

// RelayResolver turns a relay block number into its hash, used by the
// forward scan in AssetHubToRelay.
type RelayResolver interface {
	GetBlockHashAt(ctx context.Context, number uint64) (chain.Hash, error)
}

func (c *Correlator) relayParentNumberOf(ctx context.Context, ahHash chain.Hash) (uint64, error) {
	md, err := c.AssetHubMeta.At(ctx, ahHash)
	if err != nil {
		return 0, apierr.Wrap(apierr.Upstream, "load Asset Hub metadata", err)
	}
	raw, err := c.AssetHub.GetBlockExtrinsics(ctx, ahHash)
	if err != nil {
		return 0, apierr.Wrap(apierr.Upstream, "read Asset Hub block extrinsics", err)
	}
	if len(raw) == 0 {
		return 0, apierr.New(apierr.Decode, "Asset Hub block has no inherents")
	}

	resolver := metadata.NewResolver(md)
	inherent, err := extrinsic.Decode(raw[0], md, resolver, c.SS58Prefix)
	if err != nil {
		return 0, apierr.Wrap(apierr.Decode, "decode Asset Hub set_validation_data inherent", err)
	}

	n, ok := findRelayParentNumber(inherent.Args)
	if !ok {
		return 0, apierr.New(apierr.Decode, "relayParentNumber not found in set_validation_data inherent")
	}
	return n, nil
}

// findRelayParentNumber walks the decoded inherent's argument tree for
// a "relayParentNumber" field. The field sits several named-struct
// layers deep (data.validationData.relayParentNumber in the common
// shape), so this recurses rather than hard-coding the exact nesting,
// which varies slightly across runtime versions.
func findRelayParentNumber(v any) (uint64, bool) {
	switch t := v.(type) {
	case map[string]any:
		if n, ok := t["relayParentNumber"]; ok {
			if u, ok := unwrapUint(n); ok {
				return u, true
			}
		}
		for _, child := range t {
			if n, ok := findRelayParentNumber(child); ok {
				return n, true
			}
		}
	case []any:
		for _, child := range t {
			if n, ok := findRelayParentNumber(child); ok {
				return n, true
			}
		}
	}
	return 0, false
}
