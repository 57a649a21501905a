package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compact encodes a small non-negative integer in the single-byte
// SCALE compact mode, valid for values < 64.
func compact(v byte) byte { return v<<2 | 0x00 }

func stringVec(s string) []byte {
	out := []byte{compact(byte(len(s)))}
	return append(out, []byte(s)...)
}

func emptyVec() []byte { return []byte{compact(0)} }

// buildMinimalMetadata hand-assembles a raw metadata blob with one
// primitive type (u32, id 0), a zero-pallet list, and a zero-extension
// extrinsic metadata section — enough to exercise every top-level
// decode step without a full registry.
func buildMinimalMetadata() []byte {
	var b []byte
	b = append(b, 'm', 'e', 't', 'a') // magic
	b = append(b, 14)                // version

	// type registry: 1 entry
	b = append(b, compact(1))
	b = append(b, compact(0))    // type id 0
	b = append(b, emptyVec()...) // path: empty Vec<String>
	b = append(b, compact(0))    // type_params: empty
	b = append(b, 5)             // type_def discriminant: Primitive
	b = append(b, byte(PrimU32)) // primitive kind
	b = append(b, emptyVec()...) // docs

	// pallets: empty
	b = append(b, compact(0))

	// extrinsic metadata: ty (compact), version byte, extensions vec
	b = append(b, compact(0)) // extrinsic type id
	b = append(b, 4)          // extrinsic format version
	b = append(b, compact(0)) // zero signed extensions

	return b
}

func TestDecodeMinimalMetadata(t *testing.T) {
	raw := buildMinimalMetadata()
	md, err := Decode(raw, 100, "test-runtime")
	require.NoError(t, err)

	assert.Equal(t, uint32(100), md.SpecVersion)
	require.Contains(t, md.Types, 0)
	assert.Equal(t, KindPrimitive, md.Types[0].Kind)
	assert.Equal(t, PrimU32, md.Types[0].Primitive)
	assert.Empty(t, md.Pallets)
	assert.Empty(t, md.SignedExtensions)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	raw := []byte{'x', 'x', 'x', 'x', 14}
	_, err := Decode(raw, 1, "x")
	assert.Error(t, err)
}

func TestDecodeRejectsOldVersion(t *testing.T) {
	raw := []byte{'m', 'e', 't', 'a', 9}
	_, err := Decode(raw, 1, "x")
	assert.Error(t, err)
}

func TestDecodePalletWithCallsAndEvents(t *testing.T) {
	var b []byte
	b = append(b, 'm', 'e', 't', 'a')
	b = append(b, 14)

	b = append(b, compact(0)) // empty type registry

	// one pallet
	b = append(b, compact(1))
	b = append(b, stringVec("System")...)
	b = append(b, 0x00)       // storage: None
	b = append(b, 0x01)       // calls: Some
	b = append(b, compact(5)) // calls type id
	b = append(b, 0x01)       // events: Some
	b = append(b, compact(6)) // events type id
	b = append(b, compact(0)) // constants: empty
	b = append(b, 0x00)       // error: None
	b = append(b, 0x00)       // pallet index

	// extrinsic metadata
	b = append(b, compact(0))
	b = append(b, 4)
	b = append(b, compact(0))

	md, err := Decode(b, 1, "x")
	require.NoError(t, err)
	require.Len(t, md.Pallets, 1)
	assert.Equal(t, "System", md.Pallets[0].Name)
	assert.Equal(t, 5, md.Pallets[0].CallTypeID)
	assert.Equal(t, 6, md.Pallets[0].EventTypeID)
}
