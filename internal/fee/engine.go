package fee

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/events"
	"github.com/subscale/rest-gateway/internal/scale"
)

// Facade is the subset of the chain RPC client the fee engine needs:
// the two payment_* RPCs, plus StateCall, which Compute does not call
// (there is no state_call fallback when those RPCs are missing).
type Facade interface {
	PaymentQueryInfo(ctx context.Context, extrinsic []byte, at chain.Hash) (json.RawMessage, error)
	PaymentQueryFeeDetails(ctx context.Context, extrinsic []byte, at chain.Hash) (json.RawMessage, error)
	StateCall(ctx context.Context, name string, args []byte, at chain.Hash) ([]byte, error)
}

// feePerBillion is the fixed-point denominator for the tier-2 ratio
// min(1, estimatedWeight/actualWeight), avoiding float64 for a
// calculation that ultimately scales a Balance amount.
const feePerBillion = 1_000_000_000

// Compute runs the three-tier fallback for one signed extrinsic with
// paysFee==Some(true) (spec.md §4.7). rawExtrinsic is the full encoded
// extrinsic (version byte onward, no length prefix); parent is the
// block whose state the post/pre-dispatch RPCs query against — always
// the parent of the block containing the extrinsic, matching
// payment_queryInfo's "at" semantics for a not-yet-applied call.
func Compute(ctx context.Context, facade Facade, cache *Cache, specName string, specVersion uint32, rawExtrinsic []byte, parent chain.Hash, outcome events.Outcome, bucket []events.Record) Info {
	if specVersion < minCalcFeeRuntime(specName) {
		return Info{}
	}

	if info, ok := fromEvent(bucket, outcome); ok {
		return info
	}

	if outcome.ActualWeight != nil {
		available := cache.IsAvailable(specName, specVersion)
		if available == nil {
			available = probeFeeDetailsAvailable(ctx, facade, cache, specName, specVersion, rawExtrinsic, parent)
		}
		if available != nil && *available {
			if info, ok := postDispatch(ctx, facade, rawExtrinsic, parent, outcome); ok {
				return info
			}
			cache.SetAvailable(specName, specVersion, false)
		}
	}

	if info, ok := preDispatch(ctx, facade, rawExtrinsic, parent); ok {
		return info
	}

	return Info{}
}

func minCalcFeeRuntime(specName string) uint32 {
	if cfg, ok := lookupChainFeeConfig(specName); ok {
		return cfg.MinCalcFeeRuntime
	}
	return 0
}

// fromEvent is tier 1: an exact TransactionPayment.TransactionFeePaid
// event, present whenever the runtime emits it (virtually all modern
// runtimes). partialFee = actual_fee - tip.
func fromEvent(bucket []events.Record, outcome events.Outcome) (Info, bool) {
	for _, r := range bucket {
		if r.PalletName != "TransactionPayment" || r.EventName != "TransactionFeePaid" {
			continue
		}
		actualFee, ok := decimalField(r.Data, "actualFee")
		if !ok {
			return Info{}, false
		}
		tip, ok := decimalField(r.Data, "tip")
		if !ok {
			tip = big.NewInt(0)
		}
		partial := new(big.Int).Sub(actualFee, tip)
		if partial.Sign() < 0 {
			partial.SetInt64(0)
		}
		return Info{
			Weight:     outcome.ActualWeight,
			Class:      outcome.Class,
			PartialFee: partial.String(),
			Kind:       "fromEvent",
		}, true
	}
	return Info{}, false
}

func decimalField(data map[string]any, key string) (*big.Int, bool) {
	v, ok := data[key]
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		n, ok := new(big.Int).SetString(t, 10)
		return n, ok
	case uint64:
		return new(big.Int).SetUint64(t), true
	default:
		return nil, false
	}
}

// postDispatch is tier 2: payment_queryFeeDetails + payment_queryInfo
// at the parent block, combined via the adjusted-weight-fee ratio.
func postDispatch(ctx context.Context, facade Facade, raw []byte, parent chain.Hash, outcome events.Outcome) (Info, bool) {
	details, err := queryFeeDetails(ctx, facade, raw, parent)
	if err != nil || details.InclusionFee == nil {
		return Info{}, false
	}
	estWeight, class, err := queryInfo(ctx, facade, raw, parent)
	if err != nil {
		return Info{}, false
	}

	actualRefTime := outcome.ActualWeight.RefTime
	ratio := int64(feePerBillion)
	if actualRefTime > 0 && estWeight.RefTime < actualRefTime {
		ratio = new(big.Int).Div(
			new(big.Int).Mul(big.NewInt(int64(estWeight.RefTime)), big.NewInt(feePerBillion)),
			big.NewInt(int64(actualRefTime)),
		).Int64()
	}

	adjusted := new(big.Int).Div(
		new(big.Int).Mul(details.InclusionFee.AdjustedWeightFee, big.NewInt(ratio)),
		big.NewInt(feePerBillion),
	)

	partial := new(big.Int).Add(details.InclusionFee.BaseFee, details.InclusionFee.LenFee)
	partial.Add(partial, adjusted)

	resolvedClass := class
	if outcome.Class != nil {
		resolvedClass = *outcome.Class
	}

	return Info{
		Weight:     outcome.ActualWeight,
		Class:      &resolvedClass,
		PartialFee: partial.String(),
		Kind:       "postDispatch",
	}, true
}

// preDispatch is tier 3: a plain payment_queryInfo estimate, used
// whenever tier 1 and tier 2 are both unavailable.
func preDispatch(ctx context.Context, facade Facade, raw []byte, parent chain.Hash) (Info, bool) {
	weight, class, err := queryInfo(ctx, facade, raw, parent)
	if err != nil {
		return Info{}, false
	}
	partial, err := queryInfoPartialFee(ctx, facade, raw, parent)
	if err != nil {
		return Info{}, false
	}
	return Info{
		Weight:     weight,
		Class:      &class,
		PartialFee: partial,
		Kind:       "preDispatch",
	}, true
}

func probeFeeDetailsAvailable(ctx context.Context, facade Facade, cache *Cache, specName string, specVersion uint32, raw []byte, parent chain.Hash) *bool {
	_, err := facade.PaymentQueryFeeDetails(ctx, raw, parent)
	available := err == nil
	cache.SetAvailable(specName, specVersion, available)
	return &available
}

type inclusionFee struct {
	BaseFee           *big.Int
	LenFee            *big.Int
	AdjustedWeightFee *big.Int
}

type feeDetailsResult struct {
	InclusionFee *inclusionFee
}

// queryFeeDetails calls payment_queryFeeDetails and parses its
// {inclusionFee: {baseFee, lenFee, adjustedWeightFee}|null, tip}
// shape. Amounts are decoded via json.Number to preserve u128
// precision that float64 (and often plain int64) would lose.
func queryFeeDetails(ctx context.Context, facade Facade, raw []byte, at chain.Hash) (feeDetailsResult, error) {
	rawJSON, err := facade.PaymentQueryFeeDetails(ctx, raw, at)
	if err != nil {
		return feeDetailsResult{}, err
	}

	var wire struct {
		InclusionFee *struct {
			BaseFee           json.Number `json:"baseFee"`
			LenFee            json.Number `json:"lenFee"`
			AdjustedWeightFee json.Number `json:"adjustedWeightFee"`
		} `json:"inclusionFee"`
		Tip json.Number `json:"tip"`
	}
	if err := json.Unmarshal(rawJSON, &wire); err != nil {
		return feeDetailsResult{}, apierr.Wrap(apierr.Decode, "decode payment_queryFeeDetails response", err)
	}
	if wire.InclusionFee == nil {
		return feeDetailsResult{}, nil
	}

	base, ok1 := new(big.Int).SetString(wire.InclusionFee.BaseFee.String(), 10)
	lenFee, ok2 := new(big.Int).SetString(wire.InclusionFee.LenFee.String(), 10)
	adj, ok3 := new(big.Int).SetString(wire.InclusionFee.AdjustedWeightFee.String(), 10)
	if !ok1 || !ok2 || !ok3 {
		return feeDetailsResult{}, apierr.New(apierr.Decode, "non-numeric fee amount in payment_queryFeeDetails response")
	}

	return feeDetailsResult{InclusionFee: &inclusionFee{BaseFee: base, LenFee: lenFee, AdjustedWeightFee: adj}}, nil
}

// queryInfo calls payment_queryInfo and parses its {weight, class,
// partialFee} shape. weight is accepted either as a bare integer
// (pre-weight-v2 runtimes) or as the {refTime, proofSize} object
// (weight-v2 runtimes).
func queryInfo(ctx context.Context, facade Facade, raw []byte, at chain.Hash) (*Weight, string, error) {
	rawJSON, err := facade.PaymentQueryInfo(ctx, raw, at)
	if err != nil {
		return nil, "", err
	}

	var wire struct {
		Weight json.RawMessage `json:"weight"`
		Class  string          `json:"class"`
	}
	if err := json.Unmarshal(rawJSON, &wire); err != nil {
		return nil, "", apierr.Wrap(apierr.Decode, "decode payment_queryInfo response", err)
	}

	w, err := parseWeight(wire.Weight)
	if err != nil {
		return nil, "", err
	}
	return w, wire.Class, nil
}

func queryInfoPartialFee(ctx context.Context, facade Facade, raw []byte, at chain.Hash) (string, error) {
	rawJSON, err := facade.PaymentQueryInfo(ctx, raw, at)
	if err != nil {
		return "", err
	}
	var wire struct {
		PartialFee json.Number `json:"partialFee"`
	}
	if err := json.Unmarshal(rawJSON, &wire); err != nil {
		return "", apierr.Wrap(apierr.Decode, "decode payment_queryInfo response", err)
	}
	return wire.PartialFee.String(), nil
}

func parseWeight(raw json.RawMessage) (*Weight, error) {
	if len(raw) == 0 {
		return nil, apierr.New(apierr.Decode, "missing weight field")
	}

	var obj struct {
		RefTime   json.Number  `json:"refTime"`
		ProofSize *json.Number `json:"proofSize"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.RefTime != "" {
		refTime, ok := new(big.Int).SetString(obj.RefTime.String(), 10)
		if !ok {
			return nil, apierr.New(apierr.Decode, "non-numeric weight.refTime")
		}
		w := &Weight{RefTime: refTime.Uint64()}
		if obj.ProofSize != nil {
			proofSize, ok := new(big.Int).SetString(obj.ProofSize.String(), 10)
			if ok {
				p := proofSize.Uint64()
				w.ProofSize = &p
			}
		}
		return w, nil
	}

	var plain json.Number
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, apierr.Wrap(apierr.Decode, "decode weight field", err)
	}
	refTime, ok := new(big.Int).SetString(plain.String(), 10)
	if !ok {
		return nil, apierr.New(apierr.Decode, "non-numeric weight")
	}
	return &Weight{RefTime: refTime.Uint64()}, nil
}

// EncodeQueryInfoArgs builds the SCALE-encoded argument tuple for the
// TransactionPaymentApi_query_info runtime API (spec.md §4.7 tier 2):
// the extrinsic with a compact length prefix, followed by its u32 byte
// length. Compute does not call it.
func EncodeQueryInfoArgs(rawExtrinsic []byte) []byte {
	var out []byte
	out = append(out, scale.EncodeCompact(uint64(len(rawExtrinsic)))...)
	out = append(out, rawExtrinsic...)
	n := uint32(len(rawExtrinsic))
	out = append(out, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	return out
}
