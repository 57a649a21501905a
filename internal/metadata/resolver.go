package metadata

// Resolver answers the type-id questions the projector (C4) and
// extrinsic decoder (C5) need without exposing the full registry walk.
type Resolver struct {
	md *Metadata
}

// NewResolver builds a Resolver bound to one decoded Metadata.
func NewResolver(md *Metadata) *Resolver {
	return &Resolver{md: md}
}

func (r *Resolver) typeDef(id int) (*TypeDef, bool) {
	td, ok := r.md.Types[id]
	return td, ok
}

// IsVariant reports whether id resolves to an enum (Variant) type.
func (r *Resolver) IsVariant(id int) bool {
	td, ok := r.typeDef(id)
	return ok && td.Kind == KindVariant
}

// AnyVariantHasData reports whether any variant of the enum at id
// carries at least one field. Used to decide "basic enum" (bare
// string) vs "data-bearing enum" ({name: payload}) rendering.
func (r *Resolver) AnyVariantHasData(id int) bool {
	td, ok := r.typeDef(id)
	if !ok || td.Kind != KindVariant {
		return true // unknown shape: default to the data-bearing path (spec.md §4.4)
	}
	for _, v := range td.Variants {
		if len(v.Fields) > 0 {
			return true
		}
	}
	return false
}

// Variant looks up one named variant's index and fields by type id.
func (r *Resolver) Variant(id int, name string) (Variant, bool) {
	td, ok := r.typeDef(id)
	if !ok || td.Kind != KindVariant {
		return Variant{}, false
	}
	for _, v := range td.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// VariantByIndex looks up a variant by its on-wire discriminant.
func (r *Resolver) VariantByIndex(id int, index uint8) (Variant, bool) {
	td, ok := r.typeDef(id)
	if !ok || td.Kind != KindVariant {
		return Variant{}, false
	}
	for _, v := range td.Variants {
		if v.Index == index {
			return v, true
		}
	}
	return Variant{}, false
}

// Well-known account type paths (spec.md §4.4 account detection).
const (
	pathAccountId32  = "sp_core::crypto::AccountId32"
	pathAccountId    = "sp_runtime::AccountId32" // some runtimes re-export under this path
	pathMultiAddress = "sp_runtime::multiaddress::MultiAddress"
)

// AccountKind classifies how a type id should be rendered by the
// account-detection rule.
type AccountKind int

const (
	AccountKindNone AccountKind = iota
	AccountKindAccountId32
	AccountKindMultiAddress
)

// ClassifyAccount reports whether id is a recognized account type.
func (r *Resolver) ClassifyAccount(id int) AccountKind {
	td, ok := r.typeDef(id)
	if !ok {
		return AccountKindNone
	}
	path := td.PathString()
	switch path {
	case pathAccountId32, pathAccountId:
		return AccountKindAccountId32
	case pathMultiAddress:
		return AccountKindMultiAddress
	}
	return AccountKindNone
}

// IsPrimitiveWidth reports whether id is a primitive integer type of
// exactly the given bit width (e.g. 64 for u64/i64).
func (r *Resolver) IsPrimitiveWidth(id int, width int) bool {
	td, ok := r.typeDef(id)
	if !ok || td.Kind != KindPrimitive {
		return false
	}
	w, ok := primitiveWidth[td.Primitive]
	return ok && w == width
}

var primitiveWidth = map[Primitive]int{
	PrimU8: 8, PrimI8: 8,
	PrimU16: 16, PrimI16: 16,
	PrimU32: 32, PrimI32: 32,
	PrimU64: 64, PrimI64: 64,
	PrimU128: 128, PrimI128: 128,
	PrimU256: 256, PrimI256: 256,
}

// PalletName resolves a pallet's lower-cased name for the revive EVM
// overlay check (spec.md §4.4 "pallet whose lower-cased name is
// revive").
func (r *Resolver) PalletName(index uint8) (string, bool) {
	p, ok := r.md.PalletByIndex(index)
	if !ok {
		return "", false
	}
	return p.Name, true
}
