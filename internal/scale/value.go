package scale

import "math/big"

// Kind tags which shape a decoded Value holds.
type Kind int

const (
	KindBool Kind = iota
	KindUint
	KindBigInt
	KindString
	KindBytes
	KindSequence // Vec<T>, [T; N], tuple — ordered children
	KindComposite
	KindVariant
	KindBitSequence
	KindOption
)

// Field is one named or positional field of a composite or variant.
type Field struct {
	Name   string // empty for unnamed/tuple-style fields
	TypeID int
	Value  *Value
}

// Value is a decoded SCALE value tagged with enough shape information
// for the projector (C4) to render it without re-consulting metadata
// for basic structural decisions. Type-driven decisions (is this an
// account, is this enum "basic") are still the resolver's job.
type Value struct {
	Kind Kind

	Bool   bool
	Uint   uint64
	Big    *big.Int
	Str    string
	Bytes  []byte
	Bits   []bool
	Fields []Field // sequence elements (Name empty) or composite/variant fields

	// Variant-only.
	VariantName  string
	VariantIndex uint8
	HasData      bool // whether this specific variant instance carries fields

	// Option-only.
	Present bool
	Inner   *Value
}

func newBool(b bool) *Value                { return &Value{Kind: KindBool, Bool: b} }
func newUint(u uint64) *Value              { return &Value{Kind: KindUint, Uint: u} }
func newBig(b *big.Int) *Value             { return &Value{Kind: KindBigInt, Big: b} }
func newString(s string) *Value            { return &Value{Kind: KindString, Str: s} }
func newBytes(b []byte) *Value             { return &Value{Kind: KindBytes, Bytes: b} }
func newSequence(fields []Field) *Value    { return &Value{Kind: KindSequence, Fields: fields} }
func newComposite(fields []Field) *Value   { return &Value{Kind: KindComposite, Fields: fields} }
func newBitSequence(bits []bool) *Value    { return &Value{Kind: KindBitSequence, Bits: bits} }
