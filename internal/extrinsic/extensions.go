package extrinsic

import (
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/scale"
)

// decodedExtensions is the subset of a signed extrinsic's transaction
// extensions the gateway surfaces directly (spec.md §4.5 step 4).
// Every declared extension is decoded via its own type id regardless
// of whether the gateway uses the result — skipping one means
// guessing its width, and a wrong guess desyncs every field after it.
type decodedExtensions struct {
	nonce *string
	tip   *string
	era   chain.Era
}

// walkExtensions decodes every transaction extension the runtime's
// metadata declares, in order, and pulls out nonce/tip/era by matching
// well-known identifiers. CheckMortality/CheckEra is the one extension
// with a fixed, non-metadata-driven wire shape (a single 0x00 byte or
// two bytes), so it is decoded directly rather than through the
// generic type-id path; everything else goes through
// resolver.DecodeValue so the cursor always advances correctly even
// for identifiers this gateway does not recognize.
func walkExtensions(d *scale.Decoder, resolver *metadata.Resolver, exts []metadata.SignedExtension) (decodedExtensions, error) {
	out := decodedExtensions{era: chain.ImmortalEra}

	for _, ext := range exts {
		if ext.Identifier == "CheckMortality" || ext.Identifier == "CheckEra" {
			era, err := decodeEra(d)
			if err != nil {
				return out, err
			}
			out.era = era
			continue
		}

		v, err := resolver.DecodeValue(d, ext.TypeID)
		if err != nil {
			return out, err
		}

		switch ext.Identifier {
		case "CheckNonce":
			if s, ok := decimalString(v); ok {
				out.nonce = &s
			}

		case "ChargeTransactionPayment":
			if s, ok := decimalString(v); ok {
				out.tip = &s
			}

		case "ChargeAssetTxPayment":
			// Payload is (Compact<Balance>, Option<AssetId>); the tip
			// is always the first element.
			if v.Kind == scale.KindComposite && len(v.Fields) > 0 {
				if s, ok := decimalString(v.Fields[0].Value); ok {
					out.tip = &s
				}
			} else if s, ok := decimalString(v); ok {
				out.tip = &s
			}
		}
	}

	return out, nil
}

// decimalString renders a KindUint/KindBigInt value as a decimal
// string, matching the projector's convention for large-integer
// fields so nonce/tip are never silently truncated to a float64.
func decimalString(v *scale.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	switch v.Kind {
	case scale.KindUint:
		return itoa(v.Uint), true
	case scale.KindBigInt:
		if v.Big == nil {
			return "", false
		}
		return v.Big.String(), true
	default:
		return "", false
	}
}

// decodeEra reads the Era extension's wire form directly: a single
// 0x00 byte for Immortal, or two bytes for Mortal(period, phase),
// per spec.md §3/§4.5 step 4.
func decodeEra(d *scale.Decoder) (chain.Era, error) {
	first, err := d.ReadByte()
	if err != nil {
		return chain.Era{}, err
	}
	if first == 0 {
		return chain.ImmortalEra, nil
	}
	second, err := d.ReadByte()
	if err != nil {
		return chain.Era{}, err
	}
	return chain.NewMortalEra(first, second), nil
}
