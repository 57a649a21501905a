package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDigestLogsTaggedForms(t *testing.T) {
	preRuntime := append([]byte{digestPreRuntime}, []byte{'a', 'u', 'r', 'a'}...)
	preRuntime = append(preRuntime, 0x10, 0xde, 0xad, 0xbe, 0xef) // compact(4) + 4 bytes payload

	other := []byte{digestOther, 0x10, 0x01, 0x02, 0x03, 0x04}
	envUpdated := []byte{digestRuntimeEnvironmentUpdated}

	logs := DecodeDigestLogs([][]byte{preRuntime, other, envUpdated})
	require.Len(t, logs, 3)

	assert.Equal(t, "preRuntime", logs[0].Kind)
	require.NotNil(t, logs[0].EngineID)
	assert.Equal(t, "0x61757261", *logs[0].EngineID)
	require.NotNil(t, logs[0].Data)
	assert.Equal(t, "0xdeadbeef", *logs[0].Data)

	assert.Equal(t, "other", logs[1].Kind)
	assert.Nil(t, logs[1].EngineID)
	require.NotNil(t, logs[1].Data)
	assert.Equal(t, "0x01020304", *logs[1].Data)

	assert.Equal(t, "runtimeEnvironmentUpdated", logs[2].Kind)
	assert.Nil(t, logs[2].EngineID)
	assert.Nil(t, logs[2].Data)
}

func TestDecodeDigestLogsUnknownDiscriminantDowngradesToOther(t *testing.T) {
	logs := DecodeDigestLogs([][]byte{{0x02, 0x00}})
	require.Len(t, logs, 1)
	assert.Equal(t, "other", logs[0].Kind)
}
