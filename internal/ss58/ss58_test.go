package ss58

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var accountID [32]byte
	for i := range accountID {
		accountID[i] = byte(i)
	}

	addr, err := Encode(accountID, 0) // Polkadot relay prefix
	require.NoError(t, err)
	require.NotEmpty(t, addr)

	decoded, prefix, err := Decode(addr)
	require.NoError(t, err)
	assert.Equal(t, accountID, decoded)
	assert.Equal(t, uint16(0), prefix)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode("not-an-address")
	assert.Error(t, err)
}
