package wrap

import (
	"context"
	"strconv"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/rpc"
)

// RcBlock identifies the relay block a format=rc response is grouped
// under.
type RcBlock struct {
	Hash       string  `json:"hash"`
	ParentHash *string `json:"parentHash,omitempty"`
	Number     string  `json:"number"`
}

// RcFormatted is the format=rc reshaping of a useRcBlock response
// (spec.md §4.11).
type RcFormatted struct {
	RcBlock               RcBlock   `json:"rcBlock"`
	ParachainDataPerBlock []Wrapped `json:"parachainDataPerBlock"`
}

// HeaderSource is the subset of the relay façade format=rc needs to
// look up the relay block's parent hash.
type HeaderSource interface {
	GetHeader(ctx context.Context, hash chain.Hash) (rpc.RawHeader, error)
}

// ToRcFormat reshapes an already-wrapped useRcBlock array into the
// {rcBlock, parachainDataPerBlock} grouping, fetching the relay
// parent hash from the relay header (spec.md §4.11).
func ToRcFormat(ctx context.Context, headers HeaderSource, rc chain.BlockRef, wrapped []Wrapped) (*RcFormatted, error) {
	header, err := headers.GetHeader(ctx, rc.Hash)
	if err != nil {
		return nil, apierr.Wrap(apierr.Upstream, "read relay header for format=rc", err)
	}
	parentHash := header.ParentHash.String()

	return &RcFormatted{
		RcBlock: RcBlock{
			Hash:       rc.Hash.String(),
			ParentHash: &parentHash,
			Number:     strconv.FormatUint(rc.Number, 10),
		},
		ParachainDataPerBlock: wrapped,
	}, nil
}
