// Package metadata decodes a runtime's self-describing type registry
// (frame-metadata V14+) and answers the type-id questions the
// projector (C4) and extrinsic decoder (C5) need: is this id a
// variant, does any variant carry data, is this id a specific named
// account type, is this id a primitive of a given width. The cache
// here is C3: single-writer/many-reader, keyed by spec version.
package metadata

// TypeDefKind tags which shape a registry type takes.
type TypeDefKind int

const (
	KindComposite TypeDefKind = iota
	KindVariant
	KindSequence
	KindArray
	KindTuple
	KindPrimitive
	KindCompact
	KindBitSequence
)

// Primitive enumerates the scale-info primitive kinds, in the wire
// discriminant order frame-metadata uses.
type Primitive int

const (
	PrimBool Primitive = iota
	PrimChar
	PrimStr
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimU128
	PrimU256
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimI128
	PrimI256
)

// Field is one composite or variant field.
type Field struct {
	Name     string // empty for unnamed/tuple-style fields
	TypeID   int
	TypeName string
}

// Variant is one arm of an enum type.
type Variant struct {
	Name   string
	Index  uint8
	Fields []Field
}

// TypeDef is one entry in the portable type registry.
type TypeDef struct {
	Path []string // e.g. ["sp_core", "crypto", "AccountId32"]

	Kind TypeDefKind

	// Composite / Variant
	Fields   []Field
	Variants []Variant

	// Sequence / Array / Compact
	ElemTypeID int
	ArrayLen   int

	// Tuple
	TupleTypeIDs []int

	// Primitive
	Primitive Primitive

	// BitSequence
	BitStoreTypeID int
	BitOrderTypeID int
}

// PathString joins Path with "::", the conventional Rust path form
// used to recognize well-known types like sp_core::crypto::AccountId32.
func (t *TypeDef) PathString() string {
	out := ""
	for i, p := range t.Path {
		if i > 0 {
			out += "::"
		}
		out += p
	}
	return out
}

// Pallet is one runtime module's call/event directory.
type Pallet struct {
	Name     string
	Index    uint8
	CallTypeID  int // -1 if the pallet has no calls
	EventTypeID int // -1 if the pallet has no events
}

// Metadata is the decoded form of one runtime's metadata blob.
type Metadata struct {
	SpecVersion uint32
	SpecName    string

	Types   map[int]*TypeDef
	Pallets []Pallet

	// SignedExtensions lists the transaction extensions in wire order,
	// as declared by the runtime's extrinsic metadata — used by the
	// extrinsic decoder (C5 step 4) to know which extensions to expect,
	// in what order, and how to decode (or skip) each one's payload.
	SignedExtensions []SignedExtension
}

// SignedExtension is one entry in a runtime's transaction-extension list.
type SignedExtension struct {
	Identifier string
	TypeID     int
}

// PalletByIndex finds a pallet by its on-chain index.
func (m *Metadata) PalletByIndex(index uint8) (Pallet, bool) {
	for _, p := range m.Pallets {
		if p.Index == index {
			return p, true
		}
	}
	return Pallet{}, false
}

// PalletByName finds a pallet by name, case-sensitive (pallet names
// are canonical on-chain identifiers).
func (m *Metadata) PalletByName(name string) (Pallet, bool) {
	for _, p := range m.Pallets {
		if p.Name == name {
			return p, true
		}
	}
	return Pallet{}, false
}
