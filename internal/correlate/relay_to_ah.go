package correlate

import (
	"context"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/events"
	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/projector"
	"github.com/subscale/rest-gateway/internal/scale"
	"github.com/subscale/rest-gateway/internal/storage"
)

// RelayToAssetHub reads System.Events at the given relay block and
// decodes every ParaInclusion.CandidateIncluded event whose paraId
// matches, in event emission order (spec.md §4.10, elastic scaling
// permits more than one). A relay block with no matching inclusions
// returns a nil slice and a nil error, never an error.
func (c *Correlator) RelayToAssetHub(ctx context.Context, relay chain.BlockRef) ([]AssetHubBlock, error) {
	md, err := c.RelayMeta.At(ctx, relay.Hash)
	if err != nil {
		return nil, apierr.Wrap(apierr.Upstream, "load relay metadata", err)
	}
	resolver := metadata.NewResolver(md)
	proj := projector.New(resolver)

	raw, err := c.Relay.GetStorage(ctx, storage.SystemEventsKey(), relay.Hash)
	if err != nil {
		return nil, apierr.Wrap(apierr.Upstream, "read relay System.Events", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	records, err := events.Decode(raw, md, resolver, proj, projector.Options{SS58Prefix: c.SS58Prefix})
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "decode relay events", err)
	}

	var out []AssetHubBlock
	for _, rec := range records {
		if !strings.EqualFold(rec.PalletName, "ParaInclusion") || rec.EventName != "CandidateIncluded" {
			continue
		}
		paraID, headData, ok := extractCandidateIncluded(rec.Data)
		if !ok || paraID != c.paraID() {
			continue
		}
		ahBlock, err := decodeHeadData(headData)
		if err != nil {
			continue
		}
		if ts, err := c.readAssetHubTimestamp(ctx, ahBlock.Hash); err == nil {
			ahBlock.Timestamp = ts
		}
		out = append(out, ahBlock)
	}
	return out, nil
}

// decodeHeadData derives an Asset Hub block's hash and number from
// its SCALE-encoded header (spec.md §4.10): the hash is Blake2-256 of
// the full header bytes, and the number is a Compact<u32> following
// two 32-byte hashes (parent hash, state root).
func decodeHeadData(headData []byte) (AssetHubBlock, error) {
	hash := blake2b.Sum256(headData)

	d := scale.NewDecoder(headData)
	if _, err := d.ReadBytes(64); err != nil {
		return AssetHubBlock{}, apierr.Wrap(apierr.Decode, "read head data parent hash and state root", err)
	}
	number, err := d.ReadCompactUint64()
	if err != nil {
		return AssetHubBlock{}, apierr.Wrap(apierr.Decode, "read head data block number", err)
	}
	return AssetHubBlock{Hash: chain.Hash(hash), Number: number}, nil
}

func (c *Correlator) readAssetHubTimestamp(ctx context.Context, ahHash chain.Hash) (*uint64, error) {
	raw, err := c.AssetHub.GetStorage(ctx, storage.TimestampNowKey(), ahHash)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, apierr.New(apierr.NotFound, "Timestamp.Now missing at Asset Hub block")
	}
	d := scale.NewDecoder(raw)
	ts, err := d.ReadUint(8)
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "decode Timestamp.Now", err)
	}
	return &ts, nil
}

// extractCandidateIncluded pulls paraId and headData out of a decoded
// CandidateIncluded event's already-JSON-projected field map.
// CandidateIncluded's own arguments (candidate, headData, coreIndex,
// groupIndex) are unnamed tuple fields, keyed positionally by
// events.Decode's fieldKey convention; both candidate.descriptor's
// paraId and headData itself are tuple-struct newtypes, which the
// projector renders as one-element arrays rather than bare values, so
// both are unwrapped defensively.
func extractCandidateIncluded(data map[string]any) (uint64, []byte, bool) {
	candidate, ok := data["field0"].(map[string]any)
	if !ok {
		return 0, nil, false
	}
	descriptor, ok := candidate["descriptor"].(map[string]any)
	if !ok {
		return 0, nil, false
	}
	paraID, ok := unwrapUint(descriptor["paraId"])
	if !ok {
		return 0, nil, false
	}
	headDataHex, ok := unwrapHex(data["field1"])
	if !ok {
		return 0, nil, false
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(headDataHex, "0x"))
	if err != nil {
		return 0, nil, false
	}
	return paraID, raw, true
}

// unwrapUint reads a uint either rendered bare or wrapped in a
// single-element array (a newtype-wrapped field, e.g. ParaId(u32)).
func unwrapUint(v any) (uint64, bool) {
	switch t := v.(type) {
	case uint64:
		return t, true
	case []any:
		if len(t) == 1 {
			return unwrapUint(t[0])
		}
	}
	return 0, false
}

// unwrapHex reads a hex string either rendered bare or wrapped in a
// single-element array (a newtype-wrapped byte field, e.g.
// HeadData(Vec<u8>)).
func unwrapHex(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []any:
		if len(t) == 1 {
			return unwrapHex(t[0])
		}
	}
	return "", false
}
