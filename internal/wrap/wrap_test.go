package wrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/correlate"
	"github.com/subscale/rest-gateway/internal/rpc"
)

func TestWithRcMergesFieldsAndFormatsNumbersAsStrings(t *testing.T) {
	var rcHash chain.Hash
	rcHash[0] = 0xaa
	rc := chain.BlockRef{Hash: rcHash, Number: 100}

	ts1 := uint64(111)
	ahBlocks := []correlate.AssetHubBlock{
		{Number: 10, Timestamp: &ts1},
		{Number: 11, Timestamp: nil},
	}
	payloads := []Payload{
		{"number": "10", "extrinsics": []any{}},
		{"number": "11", "extrinsics": []any{}},
	}

	out, err := WithRc(rc, ahBlocks, payloads)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, rcHash.String(), out[0]["rcBlockHash"])
	assert.Equal(t, "100", out[0]["rcBlockNumber"])
	assert.Equal(t, "111", out[0]["ahTimestamp"])
	assert.Equal(t, "10", out[0]["number"])

	assert.Nil(t, out[1]["ahTimestamp"])
	assert.Equal(t, "11", out[1]["number"])
}

func TestWithRcRejectsMismatchedLengths(t *testing.T) {
	_, err := WithRc(chain.BlockRef{}, []correlate.AssetHubBlock{{}}, nil)
	assert.Error(t, err)
}

type fakeHeaderSource struct {
	header rpc.RawHeader
}

func (f fakeHeaderSource) GetHeader(ctx context.Context, hash chain.Hash) (rpc.RawHeader, error) {
	return f.header, nil
}

func TestToRcFormatGroupsWrappedArray(t *testing.T) {
	var parent chain.Hash
	parent[0] = 0x01
	var rcHash chain.Hash
	rcHash[0] = 0x02

	headers := fakeHeaderSource{header: rpc.RawHeader{ParentHash: parent}}
	wrapped := []Wrapped{{"number": "10"}, {"number": "11"}}

	got, err := ToRcFormat(context.Background(), headers, chain.BlockRef{Hash: rcHash, Number: 5}, wrapped)
	require.NoError(t, err)
	assert.Equal(t, rcHash.String(), got.RcBlock.Hash)
	require.NotNil(t, got.RcBlock.ParentHash)
	assert.Equal(t, parent.String(), *got.RcBlock.ParentHash)
	assert.Equal(t, "5", got.RcBlock.Number)
	assert.Len(t, got.ParachainDataPerBlock, 2)
}
