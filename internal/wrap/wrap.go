// Package wrap implements the response wrapper (C11): merging each
// Asset Hub block's handler output with its including relay block's
// identity when a request sets useRcBlock, and the optional format=rc
// reshaping pass (spec.md §4.11).
package wrap

import (
	"strconv"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/correlate"
)

// Payload is one handler's per-block JSON output, already assembled
// by whatever endpoint is running in useRcBlock mode.
type Payload = map[string]any

// Wrapped is one useRcBlock element: the underlying payload's own
// fields plus rcBlockHash/rcBlockNumber/ahTimestamp (spec.md §4.11,
// §7 test 6); an rc key replaces a payload field of the same name.
type Wrapped map[string]any

// WithRc merges each Asset Hub block's own handler payload with the
// relay block identity that included it. ahBlocks and ahPayloads must
// be the same length and in the same order — both come from iterating
// the same correlate.RelayToAssetHub result.
func WithRc(rc chain.BlockRef, ahBlocks []correlate.AssetHubBlock, ahPayloads []Payload) ([]Wrapped, error) {
	if len(ahBlocks) != len(ahPayloads) {
		return nil, apierr.New(apierr.Internal, "asset hub block and payload counts differ")
	}

	out := make([]Wrapped, len(ahBlocks))
	for i, ab := range ahBlocks {
		w := make(Wrapped, len(ahPayloads[i])+3)
		for k, v := range ahPayloads[i] {
			w[k] = v
		}
		w["rcBlockHash"] = rc.Hash.String()
		w["rcBlockNumber"] = strconv.FormatUint(rc.Number, 10)
		if ab.Timestamp != nil {
			w["ahTimestamp"] = strconv.FormatUint(*ab.Timestamp, 10)
		} else {
			w["ahTimestamp"] = nil
		}
		out[i] = w
	}
	return out, nil
}
