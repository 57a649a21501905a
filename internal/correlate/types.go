// Package correlate implements the dual-chain correlator (C10):
// locating the Asset Hub blocks included in a relay block by decoding
// ParaInclusion.CandidateIncluded events, and the reverse lookup from
// an Asset Hub block to its including relay block via the
// ParachainSystem.set_validation_data inherent.
package correlate

import (
	"context"

	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/constants"
	"github.com/subscale/rest-gateway/internal/metadata"
)

// AssetHubBlock is one parachain block located by decoding a relay
// block's inclusion events.
type AssetHubBlock struct {
	Hash      chain.Hash
	Number    uint64
	Timestamp *uint64 // milliseconds since epoch, from Timestamp.Now
}

// RcInclusion is the relay block that included a given Asset Hub
// block.
type RcInclusion struct {
	Hash   chain.Hash
	Number uint64
}

// Facade is the subset of the chain RPC façade the correlator needs,
// on both the relay and the Asset Hub side.
type Facade interface {
	GetStorage(ctx context.Context, key []byte, at chain.Hash) ([]byte, error)
	GetBlockExtrinsics(ctx context.Context, hash chain.Hash) ([][]byte, error)
	GetBlockHashAt(ctx context.Context, number uint64) (chain.Hash, error)
}

// MetadataSource resolves the runtime metadata active at a block.
type MetadataSource interface {
	At(ctx context.Context, at chain.Hash) (*metadata.Metadata, error)
}

// Correlator implements C10 against one relay/Asset Hub pair.
type Correlator struct {
	Relay    Facade
	AssetHub Facade

	RelayMeta    MetadataSource
	AssetHubMeta MetadataSource

	// ParaID is the Asset Hub parachain id to filter inclusion events
	// by; zero means constants.DefaultAssetHubParaID.
	ParaID uint64
	// SS58Prefix is only incidental here: it's passed through to the
	// projector in case an inclusion event happens to carry an
	// account-typed field.
	SS58Prefix uint16
}

func (c *Correlator) paraID() uint64 {
	if c.ParaID != 0 {
		return c.ParaID
	}
	return constants.DefaultAssetHubParaID
}
