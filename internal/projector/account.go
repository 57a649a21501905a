package projector

import (
	"encoding/hex"

	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/scale"
	"github.com/subscale/rest-gateway/internal/ss58"
)

// projectAccount renders v as an SS58 (or EVM-overlaid) address if
// typeID resolves to AccountId32 or a MultiAddress variant, per
// spec.md §4.4/§4.5. Returns nil if typeID is not an account type, so
// the caller falls through to the generic projection.
func (p *Projector) projectAccount(v *scale.Value, typeID int, opts Options) any {
	if p.resolver == nil || typeID == 0 {
		return nil
	}

	switch p.resolver.ClassifyAccount(typeID) {
	case metadata.AccountKindAccountId32:
		raw, ok := accountBytes(v)
		if !ok {
			return nil
		}
		return p.renderAccountID(raw, opts)

	case metadata.AccountKindMultiAddress:
		return p.renderMultiAddress(v, opts)

	default:
		return nil
	}
}

// accountBytes extracts the 32 raw bytes backing a value that decoded
// as a fixed-size byte array or byte composite (AccountId32's wire
// shape is [u8; 32]).
func accountBytes(v *scale.Value) ([32]byte, bool) {
	var out [32]byte
	if v == nil {
		return out, false
	}
	if v.Kind == scale.KindBytes && len(v.Bytes) == 32 {
		copy(out[:], v.Bytes)
		return out, true
	}
	if v.Kind == scale.KindSequence && len(v.Fields) == 32 {
		for i, f := range v.Fields {
			if f.Value == nil || f.Value.Kind != scale.KindUint {
				return out, false
			}
			out[i] = byte(f.Value.Uint)
		}
		return out, true
	}
	return out, false
}

func (p *Projector) renderAccountID(raw [32]byte, opts Options) any {
	addr, err := ss58.Encode(raw, opts.SS58Prefix)
	if err != nil {
		return "0x" + hex.EncodeToString(raw[:])
	}
	if opts.EVMOverlay {
		return evmOverlayFromAccount(raw)
	}
	return addr
}

// renderMultiAddress discriminates MultiAddress's five variants
// (spec.md §4.5 step 2): Id(AccountId32) and Address32 SS58-encode,
// Index emits {index:n}, Raw/Address20 emit hex.
func (p *Projector) renderMultiAddress(v *scale.Value, opts Options) any {
	switch v.VariantName {
	case "Id", "Address32":
		if len(v.Fields) != 1 {
			return nil
		}
		raw, ok := accountBytes(v.Fields[0].Value)
		if !ok {
			return nil
		}
		return p.renderAccountID(raw, opts)

	case "Index":
		if len(v.Fields) != 1 || v.Fields[0].Value == nil {
			return map[string]any{"index": nil}
		}
		return map[string]any{"index": p.Project(v.Fields[0].Value, 0, opts)}

	case "Raw", "Address20":
		if len(v.Fields) != 1 || v.Fields[0].Value == nil {
			return "0x"
		}
		return "0x" + hex.EncodeToString(v.Fields[0].Value.Bytes)

	default:
		return nil
	}
}

// evmOverlayHex converts a raw byte blob to the 20-byte EVM overlay
// form when it is exactly 32 bytes (an un-typed account-shaped blob
// encountered under a revive-pallet event); shorter/longer blobs are
// left as plain hex.
func evmOverlayHex(b []byte) (string, bool) {
	if len(b) != 32 {
		return "", false
	}
	var a [32]byte
	copy(a[:], b)
	return evmOverlayFromAccount(a), true
}

// evmOverlayFromAccount takes the first 20 bytes of a 32-byte account
// id and renders it as a 0x-prefixed EVM address (spec.md §4.4 EVM
// format overlay).
func evmOverlayFromAccount(raw [32]byte) string {
	return "0x" + hex.EncodeToString(raw[:20])
}
