package extrinsic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/ss58"
)

func sampleMetadata() *metadata.Metadata {
	return &metadata.Metadata{
		SpecVersion: 1,
		SpecName:    "test-runtime",
		Types: map[int]*metadata.TypeDef{
			0: {Kind: metadata.KindPrimitive, Primitive: metadata.PrimU64},
			1: {Kind: metadata.KindCompact},
			2: {Path: []string{"sp_core", "crypto", "AccountId32"}, Kind: metadata.KindArray, ArrayLen: 32, ElemTypeID: 3},
			3: {Kind: metadata.KindPrimitive, Primitive: metadata.PrimU8},
			4: {
				Path: []string{"sp_runtime", "multiaddress", "MultiAddress"},
				Kind: metadata.KindVariant,
				Variants: []metadata.Variant{
					{Name: "Id", Index: 0, Fields: []metadata.Field{{TypeID: 2}}},
				},
			},
			5: {
				Kind: metadata.KindVariant,
				Variants: []metadata.Variant{
					{
						Name: "TransferAllowDeath", Index: 0,
						Fields: []metadata.Field{
							{Name: "dest", TypeID: 4},
							{Name: "value", TypeID: 0},
						},
					},
				},
			},
		},
		Pallets: []metadata.Pallet{
			{Name: "System", Index: 0, CallTypeID: -1, EventTypeID: -1},
			{Name: "Balances", Index: 5, CallTypeID: 5, EventTypeID: -1},
		},
		SignedExtensions: []metadata.SignedExtension{
			{Identifier: "CheckNonce", TypeID: 1},
			{Identifier: "CheckMortality", TypeID: 0},
			{Identifier: "ChargeTransactionPayment", TypeID: 1},
		},
	}
}

func fill32(b byte) []byte {
	out := make([]byte, 32)
	for i := range out {
		out[i] = b
	}
	return out
}

// buildSignedExtrinsic assembles a signed TransferAllowDeath extrinsic
// matching sampleMetadata(): signer/signature/extensions/call, with no
// outer length prefix (the gateway expects that already stripped).
func buildSignedExtrinsic(nonce, tip byte) []byte {
	var raw []byte
	raw = append(raw, 0x84) // version 4, signed bit set

	raw = append(raw, 0x00)           // MultiAddress::Id
	raw = append(raw, fill32(0x11)...) // signer account id

	raw = append(raw, 0x01)            // MultiSignature::Sr25519
	raw = append(raw, make([]byte, 64)...)

	raw = append(raw, (nonce<<2)|0) // CheckNonce: compact single-byte mode
	raw = append(raw, 0x00)         // CheckMortality: Immortal
	raw = append(raw, (tip<<2)|0)   // ChargeTransactionPayment: compact single-byte mode

	raw = append(raw, 5)               // pallet index: Balances
	raw = append(raw, 0x00)            // call variant: TransferAllowDeath
	raw = append(raw, 0x00)            // MultiAddress::Id for dest
	raw = append(raw, fill32(0xaa)...) // dest account id
	raw = append(raw, 42, 0, 0, 0, 0, 0, 0, 0) // value = 42, u64 LE

	return raw
}

func TestDecodeSignedExtrinsic(t *testing.T) {
	md := sampleMetadata()
	resolver := metadata.NewResolver(md)
	raw := buildSignedExtrinsic(5, 7)

	ex, err := Decode(raw, md, resolver, 42)
	require.NoError(t, err)

	assert.True(t, ex.Signed)
	require.NotNil(t, ex.Nonce)
	assert.Equal(t, "5", *ex.Nonce)
	require.NotNil(t, ex.Tip)
	assert.Equal(t, "7", *ex.Tip)
	assert.True(t, ex.Era.Immortal)
	assert.Nil(t, ex.PaysFee)

	require.NotNil(t, ex.Signer)
	signerBytes, _, err := ss58.Decode(*ex.Signer)
	require.NoError(t, err)
	assert.Equal(t, fill32(0x11), signerBytes[:])

	require.NotNil(t, ex.Signature)
	assert.Len(t, *ex.Signature, 2+64*2) // "0x" + 64 bytes hex

	assert.Equal(t, "Balances", ex.PalletName)
	assert.Equal(t, "TransferAllowDeath", ex.CallName)

	dest, ok := ex.Args["dest"].(string)
	require.True(t, ok)
	destBytes, _, err := ss58.Decode(dest)
	require.NoError(t, err)
	assert.Equal(t, fill32(0xaa), destBytes[:])

	assert.EqualValues(t, 42, ex.Args["value"])
}

func TestDecodeUnsignedExtrinsicSeedsNoFeePaid(t *testing.T) {
	md := sampleMetadata()
	resolver := metadata.NewResolver(md)

	var raw []byte
	raw = append(raw, 0x04) // version 4, unsigned
	raw = append(raw, 5)    // pallet index: Balances
	raw = append(raw, 0x00) // call variant: TransferAllowDeath
	raw = append(raw, 0x00)
	raw = append(raw, fill32(0xbb)...)
	raw = append(raw, 1, 0, 0, 0, 0, 0, 0, 0)

	ex, err := Decode(raw, md, resolver, 0)
	require.NoError(t, err)

	assert.False(t, ex.Signed)
	require.NotNil(t, ex.PaysFee)
	assert.False(t, *ex.PaysFee)
	assert.Nil(t, ex.Signer)
}

func TestDecodeRejectsUnknownPalletIndex(t *testing.T) {
	md := sampleMetadata()
	resolver := metadata.NewResolver(md)

	raw := []byte{0x04, 99, 0x00}
	_, err := Decode(raw, md, resolver, 0)
	require.Error(t, err)
}
