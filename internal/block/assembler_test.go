package block

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/fee"
	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/rpc"
)

// sampleMetadata mirrors the minimal fixture shape used across C5/C6's
// own tests: System has no calls and one basic Event enum entry;
// Balances has a single no-argument call.
//
//	0: System::Event enum { ExtrinsicSuccess(unit) } — basic, no data
//	1: Balances::Call enum { Remark (no fields) }
func sampleMetadata() *metadata.Metadata {
	return &metadata.Metadata{
		Types: map[int]*metadata.TypeDef{
			0: {
				Kind: metadata.KindVariant,
				Variants: []metadata.Variant{
					{Name: "ExtrinsicSuccess", Index: 0},
				},
			},
			1: {
				Kind: metadata.KindVariant,
				Variants: []metadata.Variant{
					{Name: "Remark", Index: 0},
				},
			},
		},
		Pallets: []metadata.Pallet{
			{Name: "System", Index: 0, CallTypeID: -1, EventTypeID: 0},
			{Name: "Balances", Index: 5, CallTypeID: 1, EventTypeID: -1},
		},
	}
}

type fakeMetadataSource struct {
	md *metadata.Metadata
}

func (f *fakeMetadataSource) At(ctx context.Context, at chain.Hash) (*metadata.Metadata, error) {
	return f.md, nil
}

type fakeFacade struct {
	header     rpc.RawHeader
	extrinsics [][]byte
	eventsRaw  []byte
}

func (f *fakeFacade) GetHeader(ctx context.Context, hash chain.Hash) (rpc.RawHeader, error) {
	return f.header, nil
}
func (f *fakeFacade) GetBlockExtrinsics(ctx context.Context, hash chain.Hash) ([][]byte, error) {
	return f.extrinsics, nil
}
func (f *fakeFacade) GetStorage(ctx context.Context, key []byte, at chain.Hash) ([]byte, error) {
	return f.eventsRaw, nil
}
func (f *fakeFacade) GetRuntimeVersion(ctx context.Context, at chain.Hash) (rpc.RuntimeVersion, error) {
	return rpc.RuntimeVersion{SpecName: "test", SpecVersion: 1}, nil
}
func (f *fakeFacade) PaymentQueryInfo(ctx context.Context, extrinsic []byte, at chain.Hash) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeFacade) PaymentQueryFeeDetails(ctx context.Context, extrinsic []byte, at chain.Hash) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeFacade) StateCall(ctx context.Context, name string, args []byte, at chain.Hash) ([]byte, error) {
	return nil, nil
}

// remarkUnsignedExtrinsic builds version=0x04 (unsigned), pallet index
// 5, call index 0 (Remark, no fields).
func remarkUnsignedExtrinsic() []byte {
	return []byte{0x04, 5, 0x00}
}

func oneEmptyEventsBlob() []byte {
	return []byte{0x00} // compact(0): zero event records
}

func TestAssembleSingleBlock(t *testing.T) {
	var parent, stateRoot, extrinsicsRoot chain.Hash
	for i := range parent {
		parent[i] = 0xaa
		stateRoot[i] = 0xbb
		extrinsicsRoot[i] = 0xcc
	}

	facade := &fakeFacade{
		header: rpc.RawHeader{
			ParentHash:     parent,
			Number:         100,
			StateRoot:      stateRoot,
			ExtrinsicsRoot: extrinsicsRoot,
		},
		extrinsics: [][]byte{remarkUnsignedExtrinsic()},
		eventsRaw:  oneEmptyEventsBlob(),
	}

	a := &Assembler{
		Facade:     facade,
		Metadata:   &fakeMetadataSource{md: sampleMetadata()},
		FeeCache:   fee.NewCache(),
		SS58Prefix: 42,
	}

	var hash chain.Hash
	hash[0] = 0x01
	resp, err := a.Assemble(context.Background(), chain.BlockRef{Hash: hash, Number: 100}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "100", resp.Number)
	assert.Equal(t, parent.String(), resp.ParentHash)
	require.Len(t, resp.Extrinsics, 1)

	ex := resp.Extrinsics[0]
	assert.Equal(t, "balances", ex.Method.Pallet)
	assert.Equal(t, "remark", ex.Method.Method)
	assert.True(t, ex.Success)
	require.NotNil(t, ex.PaysFee)
	assert.False(t, *ex.PaysFee)
	assert.Nil(t, ex.Signature)
	assert.Empty(t, resp.OnInitialize)
	assert.Empty(t, resp.OnFinalize)
}

func TestAssembleRejectsUnknownPalletInExtrinsic(t *testing.T) {
	facade := &fakeFacade{
		header:     rpc.RawHeader{},
		extrinsics: [][]byte{{0x04, 99, 0x00}},
		eventsRaw:  oneEmptyEventsBlob(),
	}
	a := &Assembler{
		Facade:     facade,
		Metadata:   &fakeMetadataSource{md: sampleMetadata()},
		FeeCache:   fee.NewCache(),
		SS58Prefix: 42,
	}
	_, err := a.Assemble(context.Background(), chain.BlockRef{Number: 1}, Options{})
	assert.Error(t, err)
}
