package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAvailableFromStaticTableBounds(t *testing.T) {
	c := NewCache()

	unavail := c.IsAvailable("asset-hub-polkadot", 9000)
	require.NotNil(t, unavail)
	assert.False(t, *unavail)

	avail := c.IsAvailable("asset-hub-polkadot", 9010)
	require.NotNil(t, avail)
	assert.True(t, *avail)

	unknown := c.IsAvailable("asset-hub-polkadot", 9005)
	assert.Nil(t, unknown)
}

func TestIsAvailableResolvesAlias(t *testing.T) {
	c := NewCache()
	result := c.IsAvailable("statemint", 9010)
	require.NotNil(t, result)
	assert.True(t, *result)
}

func TestSetAvailableIsMonotone(t *testing.T) {
	c := NewCache()
	c.SetAvailable("some-chain", 100, true)
	c.SetAvailable("some-chain", 100, false) // must not overwrite

	result := c.IsAvailable("some-chain", 100)
	require.NotNil(t, result)
	assert.True(t, *result)
}

func TestIsAvailableUnknownChainProbesRuntimeMap(t *testing.T) {
	c := NewCache()
	assert.Nil(t, c.IsAvailable("unknown-chain", 1))

	c.SetAvailable("unknown-chain", 1, true)
	result := c.IsAvailable("unknown-chain", 1)
	require.NotNil(t, result)
	assert.True(t, *result)
}
