// Package constants holds small shared default values used across the
// gateway so they are defined once instead of scattered as magic numbers.
package constants

import "time"

// HTTP server constants
const (
	DefaultBindHost = "127.0.0.1"
	DefaultPort     = 8080

	MinPort = 1
	MaxPort = 65535

	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second
	DefaultIdleTimeout  = 60 * time.Second

	DefaultRequestLimitBytes = 512_000
	DefaultKeepAliveTimeout  = 5 * time.Second
)

// Chain RPC façade constants
const (
	DefaultRPCTimeout      = 30 * time.Second
	DefaultRequestDeadline = 30 * time.Second

	InitialReconnectDelay = 250 * time.Millisecond
	MaxReconnectDelay     = 30 * time.Second
)

// Block assembly constants
const (
	DefaultBlockFetchConcurrency = 4
	MinBlockFetchConcurrency     = 1
	MaxBlockFetchConcurrency     = 16

	MaxBlockRangeSize = 500
)

// Dual-chain correlation constants
const (
	DefaultAssetHubParaID = 1000

	DefaultMaxCorrelationDepth = 10
	MaxCorrelationDepthCeiling = 100
)
