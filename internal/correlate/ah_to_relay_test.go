package correlate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/metadata"
)

// parachainSystemMetadata describes just enough of ParachainSystem's
// set_validation_data call to exercise relayParentNumberOf: a single
// named argument ("data") nesting down to a named "relayParentNumber"
// field, mirroring real metadata's
// data.validationData.relayParentNumber shape without needing every
// sibling field.
func parachainSystemMetadata() *metadata.Metadata {
	const (
		u32            = 1
		validationData = 2
		inherentData   = 3
		setValDataCall = 4
	)
	return &metadata.Metadata{
		Types: map[int]*metadata.TypeDef{
			u32: {Kind: metadata.KindPrimitive, Primitive: metadata.PrimU32},
			validationData: {Kind: metadata.KindComposite, Fields: []metadata.Field{
				{Name: "relayParentNumber", TypeID: u32},
			}},
			inherentData: {Kind: metadata.KindComposite, Fields: []metadata.Field{
				{Name: "validationData", TypeID: validationData},
			}},
			setValDataCall: {Kind: metadata.KindVariant, Variants: []metadata.Variant{
				{Name: "setValidationData", Index: 0, Fields: []metadata.Field{
					{Name: "data", TypeID: inherentData},
				}},
			}},
		},
		Pallets: []metadata.Pallet{
			{Name: "ParachainSystem", Index: 3, CallTypeID: setValDataCall, EventTypeID: -1},
		},
	}
}

// setValidationDataInherent builds the raw unsigned extrinsic bytes
// for ParachainSystem.set_validation_data carrying relayParentNumber.
func setValidationDataInherent(relayParentNumber uint32) []byte {
	return []byte{
		0x04, // unsigned
		3,    // pallet index: ParachainSystem
		0,    // call index: setValidationData
		byte(relayParentNumber), byte(relayParentNumber >> 8),
		byte(relayParentNumber >> 16), byte(relayParentNumber >> 24),
	}
}

type fakeForwardRelayFacade struct {
	eventsByHeight map[byte][]byte
}

func (f *fakeForwardRelayFacade) GetStorage(ctx context.Context, key []byte, at chain.Hash) ([]byte, error) {
	return f.eventsByHeight[at[0]], nil
}
func (f *fakeForwardRelayFacade) GetBlockExtrinsics(ctx context.Context, hash chain.Hash) ([][]byte, error) {
	return nil, nil
}
func (f *fakeForwardRelayFacade) GetBlockHashAt(ctx context.Context, number uint64) (chain.Hash, error) {
	var h chain.Hash
	h[0] = byte(number)
	return h, nil
}

type fakeAssetHubFacadeForInherent struct {
	extrinsics [][]byte
}

func (f *fakeAssetHubFacadeForInherent) GetStorage(ctx context.Context, key []byte, at chain.Hash) ([]byte, error) {
	return nil, nil
}
func (f *fakeAssetHubFacadeForInherent) GetBlockExtrinsics(ctx context.Context, hash chain.Hash) ([][]byte, error) {
	return f.extrinsics, nil
}
func (f *fakeAssetHubFacadeForInherent) GetBlockHashAt(ctx context.Context, number uint64) (chain.Hash, error) {
	return chain.Hash{}, nil
}

func TestAssetHubToRelayFindsInclusionWithinBound(t *testing.T) {
	headData := buildHeadData(99)
	ahBlock, err := decodeHeadData(headData)
	require.NoError(t, err)

	const relayParentNumber = 1000
	eventsByHeight := map[byte][]byte{
		byte(relayParentNumber + 1): buildEventsBlob(2000, buildHeadData(1)),        // no match: wrong paraId
		byte(relayParentNumber + 2): buildEventsBlob(1000, buildHeadData(1)),        // no match: different AH block
		byte(relayParentNumber + 3): buildEventsBlob(1000, headData),                // match
	}

	c := &Correlator{
		AssetHub:     &fakeAssetHubFacadeForInherent{extrinsics: [][]byte{setValidationDataInherent(relayParentNumber)}},
		Relay:        &fakeForwardRelayFacade{eventsByHeight: eventsByHeight},
		AssetHubMeta: &fakeCorrelateMetadata{md: parachainSystemMetadata()},
		RelayMeta:    &fakeCorrelateMetadata{md: paraInclusionMetadata()},
		ParaID:       1000,
	}

	resolver := &fakeForwardRelayFacade{eventsByHeight: eventsByHeight}
	got, err := c.AssetHubToRelay(context.Background(), chain.BlockRef{Hash: ahBlock.Hash, Number: 99}, resolver, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(relayParentNumber+3), got.Number)
}

func TestAssetHubToRelayReturnsNilWhenNoMatchWithinDepth(t *testing.T) {
	const relayParentNumber = 1000
	eventsByHeight := map[byte][]byte{}

	c := &Correlator{
		AssetHub:     &fakeAssetHubFacadeForInherent{extrinsics: [][]byte{setValidationDataInherent(relayParentNumber)}},
		Relay:        &fakeForwardRelayFacade{eventsByHeight: eventsByHeight},
		AssetHubMeta: &fakeCorrelateMetadata{md: parachainSystemMetadata()},
		RelayMeta:    &fakeCorrelateMetadata{md: paraInclusionMetadata()},
		ParaID:       1000,
	}

	resolver := &fakeForwardRelayFacade{eventsByHeight: eventsByHeight}
	var ahHash chain.Hash
	got, err := c.AssetHubToRelay(context.Background(), chain.BlockRef{Hash: ahHash, Number: 99}, resolver, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}
