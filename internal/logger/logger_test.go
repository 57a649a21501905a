package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDefaults(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "not-a-level"})
	assert.Error(t, err)
}

func TestFromContextFallsBackToNop(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotNil(t, l)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	base := zap.NewNop()
	ctx := WithLogger(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))
}

func TestWithComponent(t *testing.T) {
	base := zap.NewNop()
	child := WithComponent(base, "fee-engine")
	assert.NotNil(t, child)
}
