// Package blockid resolves the absent/hex/decimal block-id grammar
// (C2) into a concrete BlockRef against a chain façade.
package blockid

import (
	"context"
	"encoding/hex"
	"regexp"
	"strconv"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/rpc"
)

// Facade is the subset of the chain RPC façade (C1) block resolution needs.
type Facade interface {
	GetFinalizedHead(ctx context.Context) (chain.BlockRef, error)
	GetHeader(ctx context.Context, hash chain.Hash) (rpc.RawHeader, error)
	GetBlockHashAt(ctx context.Context, number uint64) (chain.Hash, error)
}

var hashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
var decimalPattern = regexp.MustCompile(`^[0-9]+$`)

// Resolve implements the C2 grammar:
//   - absent ("")   → finalized head
//   - 0x<64 hex>    → that hash, number looked up via its header
//   - decimal digits → that number, hash looked up via chain_getBlockHash
//   - anything else → InvalidInput
func Resolve(ctx context.Context, f Facade, blockID string) (chain.BlockRef, error) {
	switch {
	case blockID == "":
		return f.GetFinalizedHead(ctx)

	case hashPattern.MatchString(blockID):
		hash, err := parseHash(blockID)
		if err != nil {
			return chain.BlockRef{}, err
		}
		header, err := f.GetHeader(ctx, hash)
		if err != nil {
			return chain.BlockRef{}, err
		}
		return chain.BlockRef{Hash: hash, Number: header.Number}, nil

	case decimalPattern.MatchString(blockID):
		number, err := strconv.ParseUint(blockID, 10, 64)
		if err != nil {
			return chain.BlockRef{}, apierr.Invalid("block number out of range", blockID)
		}
		hash, err := f.GetBlockHashAt(ctx, number)
		if err != nil {
			return chain.BlockRef{}, err
		}
		return chain.BlockRef{Hash: hash, Number: number}, nil

	default:
		return chain.BlockRef{}, apierr.Invalid("block id must be absent, a 0x-prefixed 32-byte hash, or a decimal number", blockID)
	}
}

func parseHash(s string) (chain.Hash, error) {
	var h chain.Hash
	n, err := hex.Decode(h[:], []byte(s[2:]))
	if err != nil || n != 32 {
		return chain.Hash{}, apierr.Invalid("malformed block hash", s)
	}
	return h, nil
}
