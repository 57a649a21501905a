package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleGetBlockHeadAlias(t *testing.T) {
	svc, _ := newTestService(t)
	server := NewServer("127.0.0.1:0", svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/chains/relay/blocks/head", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "10", body["number"])
}

func TestHandleGetBlockUnknownChainReturns400(t *testing.T) {
	svc, _ := newTestService(t)
	server := NewServer("127.0.0.1:0", svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/chains/unknown/blocks/head", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetBlockRangeMissingParamsReturns400(t *testing.T) {
	svc, _ := newTestService(t)
	server := NewServer("127.0.0.1:0", svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/chains/relay/block-range", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetBlockRangeSucceeds(t *testing.T) {
	svc, facade := newTestService(t)
	facade.hashAt[11] = chainHash(0xbb)
	server := NewServer("127.0.0.1:0", svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/chains/relay/block-range?from=10&to=11&noFees=true", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
}

func TestHandleGetExtrinsicOutOfRangeReturns404(t *testing.T) {
	svc, _ := newTestService(t)
	server := NewServer("127.0.0.1:0", svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/chains/relay/blocks/head/extrinsics/0", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetAssetHubBlocksWithoutCorrelatorReturns400(t *testing.T) {
	svc, _ := newTestService(t)
	server := NewServer("127.0.0.1:0", svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/chains/relay/blocks/head/asset-hub-blocks", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	svc, _ := newTestService(t)
	server := NewServer("127.0.0.1:0", svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func chainHash(b byte) (h [32]byte) {
	h[0] = b
	return h
}
