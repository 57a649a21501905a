package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/constants"
)

func TestDefaultIsValidOnceChainURLSet(t *testing.T) {
	cfg := Default()
	cfg.PrimaryChainURL = "wss://relay.example/rpc"
	require.NoError(t, cfg.Validate())
}

func TestDefaultRejectsMissingPrimaryChainURL(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	contents := "bindHost: 0.0.0.0\nport: 9090\nprimaryChainUrl: wss://relay.example/rpc\nmultiChainUrls:\n  - url: wss://assethub.example/rpc\n    chainType: asset-hub\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "0.0.0.0", cfg.BindHost)
	assert.Equal(t, 9090, cfg.Port)
	require.Len(t, cfg.MultiChainURLs, 1)
	assert.Equal(t, chain.TypeAssetHub, cfg.MultiChainURLs[0].ChainType)
}

func TestLoadFromFileMissingPathIsNoop(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.LoadFromFile(""))
}

func TestLoadFromFileMalformedErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o644))

	cfg := Default()
	assert.Error(t, cfg.LoadFromFile(path))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(envBindHost, "10.0.0.1")
	t.Setenv(envPort, "7777")
	t.Setenv(envPrimaryChainURL, "wss://relay.example/rpc")
	t.Setenv(envMultiChainURLs, "wss://assethub.example/rpc=asset-hub, wss://coretime.example/rpc=coretime")
	t.Setenv(envLogJSON, "false")

	cfg := Default()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "10.0.0.1", cfg.BindHost)
	assert.Equal(t, 7777, cfg.Port)
	assert.Equal(t, "wss://relay.example/rpc", cfg.PrimaryChainURL)
	require.Len(t, cfg.MultiChainURLs, 2)
	assert.Equal(t, chain.TypeAssetHub, cfg.MultiChainURLs[0].ChainType)
	assert.Equal(t, chain.TypeCoretime, cfg.MultiChainURLs[1].ChainType)
	assert.False(t, cfg.LogJSON)
}

func TestLoadFromEnvInvalidPort(t *testing.T) {
	t.Setenv(envPort, "not-a-number")
	cfg := Default()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestValidateBounds(t *testing.T) {
	cfg := Default()
	cfg.PrimaryChainURL = "wss://relay.example/rpc"

	cfg.Port = 0
	assert.Error(t, cfg.Validate())
	cfg.Port = constants.DefaultPort

	cfg.BlockFetchConcurrency = 0
	assert.Error(t, cfg.Validate())
}

func TestAddress(t *testing.T) {
	cfg := Default()
	cfg.BindHost = "127.0.0.1"
	cfg.Port = 8080
	assert.Equal(t, "127.0.0.1:8080", cfg.Address())
}
