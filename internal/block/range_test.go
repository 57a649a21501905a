package block

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/fee"
	"github.com/subscale/rest-gateway/internal/rpc"
)

type fakeRangeResolver struct{}

func (fakeRangeResolver) GetBlockHashAt(ctx context.Context, number uint64) (chain.Hash, error) {
	var h chain.Hash
	h[0] = byte(number)
	return h, nil
}

func newRangeAssembler() *Assembler {
	facade := &fakeFacade{
		header:     rpc.RawHeader{},
		extrinsics: nil,
		eventsRaw:  oneEmptyEventsBlob(),
	}
	return &Assembler{
		Facade:      facade,
		Metadata:    &fakeMetadataSource{md: sampleMetadata()},
		FeeCache:    fee.NewCache(),
		SS58Prefix:  42,
		Concurrency: 2,
	}
}

func TestAssembleRangeRejectsInvertedRange(t *testing.T) {
	a := newRangeAssembler()
	_, err := a.AssembleRange(context.Background(), fakeRangeResolver{}, 10, 5, Options{})
	require.Error(t, err)
	assert.True(t, apierr.IsKind(err, apierr.InvalidInput))
}

func TestAssembleRangeRejectsOversizedRange(t *testing.T) {
	a := newRangeAssembler()
	_, err := a.AssembleRange(context.Background(), fakeRangeResolver{}, 0, 500, Options{})
	require.Error(t, err)
	assert.True(t, apierr.IsKind(err, apierr.InvalidInput))
}

func TestAssembleRangeReturnsAscendingOrder(t *testing.T) {
	a := newRangeAssembler()
	results, err := a.AssembleRange(context.Background(), fakeRangeResolver{}, 10, 14, Options{})
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, uint64(10+i), mustParseNumber(t, r.Number))
	}
}

func mustParseNumber(t *testing.T, s string) uint64 {
	t.Helper()
	n, err := strconv.ParseUint(s, 10, 64)
	require.NoError(t, err)
	return n
}
