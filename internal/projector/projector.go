// Package projector implements the SCALE→JSON projection rules (C4):
// primitives, composites, sequences, variants, bit sequences, and the
// account/EVM-overlay rendering rules layered on top of them.
package projector

import (
	"encoding/hex"
	"strings"

	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/scale"
	"github.com/subscale/rest-gateway/internal/ss58"
)

// Options configures a projection pass.
type Options struct {
	// SS58Prefix is the chain's address prefix, used whenever an
	// account-typed value is rendered.
	SS58Prefix uint16
	// EVMOverlay converts SS58 output to a 20-byte EVM hex address,
	// activated when the enclosing event's pallet is "revive"
	// (case-insensitive), per spec.md §4.4.
	EVMOverlay bool
}

// Projector walks decoded scale.Value trees, consulting a metadata
// resolver for variant/account/primitive-width decisions, and
// produces plain Go values suitable for json.Marshal (map[string]any,
// []any, string, float64/json.Number-compatible, bool, nil).
type Projector struct {
	resolver *metadata.Resolver
}

// New builds a Projector bound to one runtime's resolver.
func New(resolver *metadata.Resolver) *Projector {
	return &Projector{resolver: resolver}
}

// Project renders v (whose static type is typeID) to a JSON-ready value.
func (p *Projector) Project(v *scale.Value, typeID int, opts Options) any {
	if v == nil {
		return nil
	}

	if account := p.projectAccount(v, typeID, opts); account != nil {
		return account
	}

	switch v.Kind {
	case scale.KindBool:
		return v.Bool
	case scale.KindUint:
		return v.Uint
	case scale.KindBigInt:
		return v.Big.String()
	case scale.KindString:
		return v.Str
	case scale.KindBytes:
		return p.projectBytes(v.Bytes, opts)
	case scale.KindBitSequence:
		out := make([]any, len(v.Bits))
		for i, b := range v.Bits {
			out[i] = b
		}
		return out
	case scale.KindSequence:
		return p.projectSequence(v, opts)
	case scale.KindComposite:
		return p.projectComposite(v, typeID, opts)
	case scale.KindVariant:
		return p.projectVariant(v, typeID, opts)
	default:
		return nil
	}
}

// projectBytes renders a raw byte blob as "0x<hex>" whatever its
// length (or as an EVM address under the revive overlay when it is 32
// bytes). The 3..256-byte limit of the composite rule (spec.md §4.4) is
// checked by rawByteComposite before an unnamed composite reaches here.
func (p *Projector) projectBytes(b []byte, opts Options) any {
	if opts.EVMOverlay {
		if addr, ok := evmOverlayHex(b); ok {
			return addr
		}
	}
	return "0x" + hex.EncodeToString(b)
}

func (p *Projector) projectSequence(v *scale.Value, opts Options) any {
	out := make([]any, len(v.Fields))
	for i, f := range v.Fields {
		out[i] = p.Project(f.Value, fieldTypeID(f), opts)
	}
	return out
}

func (p *Projector) projectComposite(v *scale.Value, typeID int, opts Options) any {
	// All-unnamed composite whose raw form is a 3..256-byte blob: hex.
	if raw, ok := rawByteComposite(v); ok {
		return p.projectBytes(raw, opts)
	}

	allUnnamed := true
	for _, f := range v.Fields {
		if f.Name != "" {
			allUnnamed = false
			break
		}
	}
	if allUnnamed {
		out := make([]any, len(v.Fields))
		for i, f := range v.Fields {
			out[i] = p.Project(f.Value, fieldTypeID(f), opts)
		}
		return out
	}

	out := make(map[string]any, len(v.Fields))
	for _, f := range v.Fields {
		out[lowerCamel(f.Name)] = p.Project(f.Value, fieldTypeID(f), opts)
	}
	return out
}

// rawByteComposite detects an all-unnamed, all-byte composite of
// length 3..256, the "emit as hex" special case.
func rawByteComposite(v *scale.Value) ([]byte, bool) {
	if len(v.Fields) < 3 || len(v.Fields) > 256 {
		return nil, false
	}
	out := make([]byte, len(v.Fields))
	for i, f := range v.Fields {
		if f.Name != "" || f.Value == nil || f.Value.Kind != scale.KindUint {
			return nil, false
		}
		out[i] = byte(f.Value.Uint)
	}
	return out, true
}

func (p *Projector) projectVariant(v *scale.Value, typeID int, opts Options) any {
	dataBearing := v.HasData
	if p.resolver != nil && typeID != 0 {
		dataBearing = p.resolver.AnyVariantHasData(typeID)
	}
	if !dataBearing {
		return v.VariantName
	}

	var payload any
	switch {
	case len(v.Fields) == 0:
		payload = nil
	default:
		allUnnamed := true
		for _, f := range v.Fields {
			if f.Name != "" {
				allUnnamed = false
				break
			}
		}
		if allUnnamed {
			arr := make([]any, len(v.Fields))
			for i, f := range v.Fields {
				arr[i] = p.Project(f.Value, fieldTypeID(f), opts)
			}
			payload = arr
		} else {
			obj := make(map[string]any, len(v.Fields))
			for _, f := range v.Fields {
				obj[lowerCamel(f.Name)] = p.Project(f.Value, fieldTypeID(f), opts)
			}
			payload = obj
		}
	}
	return map[string]any{lowerCamel(v.VariantName): payload}
}

func fieldTypeID(f scale.Field) int {
	return f.TypeID
}

func lowerCamel(s string) string {
	parts := strings.Split(s, "_")
	out := parts[0]
	if out != "" {
		out = strings.ToLower(out[:1]) + out[1:]
	}
	for _, p := range parts[1:] {
		if p != "" {
			out += strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return out
}
