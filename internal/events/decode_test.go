package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/projector"
)

// Type layout:
//   0: u64 (refTime/proofSize)
//   1: Weight composite {refTime: 0, proofSize: 0}
//   2: DispatchClass enum (Normal/Operational/Mandatory) — basic, no data
//   3: Pays enum (Yes/No) — basic, no data
//   4: DispatchInfo composite {weight: 1, class: 2, paysFee: 3}
//   5: System::Event enum { ExtrinsicSuccess(4), ExtrinsicFailed(_, 4) }
//   6: Balances::Event enum { Transfer{from: AccountId32, to: AccountId32, amount: u64} }
//   7: AccountId32 array
//   8: u8
func sampleMetadata() *metadata.Metadata {
	return &metadata.Metadata{
		Types: map[int]*metadata.TypeDef{
			0: {Kind: metadata.KindPrimitive, Primitive: metadata.PrimU64},
			1: {
				Kind: metadata.KindComposite,
				Fields: []metadata.Field{
					{Name: "ref_time", TypeID: 0},
					{Name: "proof_size", TypeID: 0},
				},
			},
			2: {
				Kind: metadata.KindVariant,
				Variants: []metadata.Variant{
					{Name: "Normal", Index: 0},
					{Name: "Operational", Index: 1},
					{Name: "Mandatory", Index: 2},
				},
			},
			3: {
				Kind: metadata.KindVariant,
				Variants: []metadata.Variant{
					{Name: "Yes", Index: 0},
					{Name: "No", Index: 1},
				},
			},
			4: {
				Kind: metadata.KindComposite,
				Fields: []metadata.Field{
					{Name: "weight", TypeID: 1},
					{Name: "class", TypeID: 2},
					{Name: "pays_fee", TypeID: 3},
				},
			},
			5: {
				Kind: metadata.KindVariant,
				Variants: []metadata.Variant{
					{Name: "ExtrinsicSuccess", Index: 0, Fields: []metadata.Field{{TypeID: 4}}},
					{Name: "ExtrinsicFailed", Index: 1, Fields: []metadata.Field{{TypeID: 4}, {TypeID: 4}}},
				},
			},
			6: {
				Kind: metadata.KindVariant,
				Variants: []metadata.Variant{
					{
						Name: "Transfer", Index: 2,
						Fields: []metadata.Field{
							{Name: "from", TypeID: 7},
							{Name: "to", TypeID: 7},
							{Name: "amount", TypeID: 0},
						},
					},
				},
			},
			7: {Path: []string{"sp_core", "crypto", "AccountId32"}, Kind: metadata.KindArray, ArrayLen: 32, ElemTypeID: 8},
			8: {Kind: metadata.KindPrimitive, Primitive: metadata.PrimU8},
		},
		Pallets: []metadata.Pallet{
			{Name: "System", Index: 0, CallTypeID: -1, EventTypeID: 5},
			{Name: "Balances", Index: 5, CallTypeID: -1, EventTypeID: 6},
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

func compactSmall(v byte) byte { return v << 2 }

func buildEventsBlob(records [][]byte) []byte {
	var raw []byte
	raw = append(raw, compactSmall(byte(len(records))))
	for _, r := range records {
		raw = append(raw, r...)
	}
	return raw
}

// buildSuccessRecord builds one EventRecord: Phase::ApplyExtrinsic(0),
// System.ExtrinsicSuccess(DispatchInfo{weight:{7,0}, class:Normal,
// paysFee:Yes}), zero topics.
func buildSuccessRecord(extrinsicIndex uint32) []byte {
	var raw []byte
	raw = append(raw, 0x00)                    // Phase::ApplyExtrinsic
	raw = append(raw, byte(extrinsicIndex), 0, 0, 0) // u32 LE
	raw = append(raw, 0)                       // pallet index: System
	raw = append(raw, 0x00)                    // ExtrinsicSuccess
	raw = append(raw, 7, 0, 0, 0, 0, 0, 0, 0)  // ref_time = 7
	raw = append(raw, 9, 0, 0, 0, 0, 0, 0, 0)  // proof_size = 9
	raw = append(raw, 0x00)                    // DispatchClass::Normal
	raw = append(raw, 0x00)                    // Pays::Yes
	raw = append(raw, 0x00)                    // topics: empty Vec
	return raw
}

func buildTransferRecord(extrinsicIndex uint32) []byte {
	var raw []byte
	raw = append(raw, 0x00)
	raw = append(raw, byte(extrinsicIndex), 0, 0, 0)
	raw = append(raw, 5)               // pallet index: Balances
	raw = append(raw, 2)               // Transfer variant index
	raw = append(raw, fill32(0x11)...) // from
	raw = append(raw, fill32(0x22)...) // to
	raw = append(raw, 100, 0, 0, 0, 0, 0, 0, 0) // amount = 100
	raw = append(raw, 0x00)
	return raw
}

func buildFinalizationRecord() []byte {
	var raw []byte
	raw = append(raw, 0x01) // Phase::Finalization
	raw = append(raw, 0)    // pallet index: System
	raw = append(raw, 0x00) // ExtrinsicSuccess (reused as a stand-in event)
	raw = append(raw, 1, 0, 0, 0, 0, 0, 0, 0)
	raw = append(raw, 1, 0, 0, 0, 0, 0, 0, 0)
	raw = append(raw, 0x00)
	raw = append(raw, 0x00)
	raw = append(raw, 0x00)
	return raw
}

func TestDecodeAndClassify(t *testing.T) {
	md := sampleMetadata()
	resolver := metadata.NewResolver(md)
	proj := projector.New(resolver)

	blob := buildEventsBlob([][]byte{
		buildTransferRecord(0),
		buildSuccessRecord(0),
		buildFinalizationRecord(),
	})

	records, err := Decode(blob, md, resolver, proj, projector.Options{SS58Prefix: 42})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Balances", records[0].PalletName)
	assert.Equal(t, "Transfer", records[0].EventName)
	assert.EqualValues(t, 100, records[0].Data["amount"])

	c := Classify(records)
	require.Len(t, c.PerExtrinsic[0], 2)
	require.Len(t, c.OnFinalize, 1)

	outcome, ok := c.Outcomes[0]
	require.True(t, ok)
	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.ActualWeight)
	assert.Equal(t, uint64(7), outcome.ActualWeight.RefTime)
	require.NotNil(t, outcome.Class)
	assert.Equal(t, "Normal", *outcome.Class)
	require.NotNil(t, outcome.PaysFee)
	assert.True(t, *outcome.PaysFee)
}

func TestDeriveOutcomeDefaultsWhenNoDispatchEvent(t *testing.T) {
	o := deriveOutcome(nil)
	assert.False(t, o.Success)
	assert.Nil(t, o.ActualWeight)
	assert.Nil(t, o.Class)
	assert.Nil(t, o.PaysFee)
}

func TestDecodeRejectsUnknownPalletIndex(t *testing.T) {
	md := sampleMetadata()
	resolver := metadata.NewResolver(md)
	proj := projector.New(resolver)

	blob := buildEventsBlob([][]byte{{0x00, 0, 0, 0, 0, 99, 0x00}})
	_, err := Decode(blob, md, resolver, proj, projector.Options{})
	require.Error(t, err)
}
