// Package rpc is the chain RPC façade (C1): typed access to a node's
// JSON-RPC interface over WebSocket, grounded on the teacher's
// client.go (struct wraps a connection + logger, NewClient/Close/Ping
// idiom) and on the websocket JSON-RPC request/response plumbing from
// the substrate-client reference in other_examples/.
package rpc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/constants"
)

// RawHeader is a block header with its digest logs left undecoded —
// callers that need the logs projected go through internal/block.
type RawHeader struct {
	ParentHash     chain.Hash
	Number         uint64
	StateRoot      chain.Hash
	ExtrinsicsRoot chain.Hash
	DigestLogs     [][]byte
}

// RuntimeVersion is the subset of state_getRuntimeVersion the gateway
// consumes.
type RuntimeVersion struct {
	SpecName    string
	SpecVersion uint32
}

// Client is a connection to one chain's JSON-RPC endpoint.
type Client struct {
	transport *transport
	logger    *zap.Logger
}

// Config configures a single chain connection.
type Config struct {
	Endpoint string
	Logger   *zap.Logger
}

// Dial opens a connection to a chain endpoint and blocks until the
// initial handshake completes.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, apierr.New(apierr.InvalidInput, "chain endpoint cannot be empty")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	t := newTransport(cfg.Endpoint, logger)
	if err := t.dial(ctx); err != nil {
		return nil, err
	}
	return &Client{transport: t, logger: logger}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.transport.close()
}

func (c *Client) callWithTimeout(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRPCTimeout)
	defer cancel()
	return c.transport.call(ctx, method, params...)
}

func decodeHexBytes(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, apierr.Wrap(apierr.Decode, "decode hex string result", err)
	}
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "hex-decode result", err)
	}
	return b, nil
}

func decodeHash(raw json.RawMessage) (chain.Hash, error) {
	b, err := decodeHexBytes(raw)
	if err != nil {
		return chain.Hash{}, err
	}
	if len(b) != 32 {
		return chain.Hash{}, apierr.New(apierr.Decode, fmt.Sprintf("expected 32-byte hash, got %d bytes", len(b)))
	}
	var h chain.Hash
	copy(h[:], b)
	return h, nil
}

// GetFinalizedHead fetches the current finalized block hash, then its
// header, and returns the combined BlockRef.
func (c *Client) GetFinalizedHead(ctx context.Context) (chain.BlockRef, error) {
	raw, err := c.callWithTimeout(ctx, "chain_getFinalizedHead")
	if err != nil {
		return chain.BlockRef{}, err
	}
	hash, err := decodeHash(raw)
	if err != nil {
		return chain.BlockRef{}, err
	}
	header, err := c.GetHeader(ctx, hash)
	if err != nil {
		return chain.BlockRef{}, err
	}
	return chain.BlockRef{Hash: hash, Number: header.Number}, nil
}

type headerJSON struct {
	ParentHash     string   `json:"parentHash"`
	Number         string   `json:"number"`
	StateRoot      string   `json:"stateRoot"`
	ExtrinsicsRoot string   `json:"extrinsicsRoot"`
	Digest         struct {
		Logs []string `json:"logs"`
	} `json:"digest"`
}

// GetHeader fetches a block header at the given hash.
func (c *Client) GetHeader(ctx context.Context, hash chain.Hash) (RawHeader, error) {
	raw, err := c.callWithTimeout(ctx, "chain_getHeader", hash.String())
	if err != nil {
		return RawHeader{}, err
	}
	if string(raw) == "null" {
		return RawHeader{}, apierr.New(apierr.NotFound, "header not found").WithValue(hash.String())
	}
	var h headerJSON
	if err := json.Unmarshal(raw, &h); err != nil {
		return RawHeader{}, apierr.Wrap(apierr.Decode, "decode header", err)
	}

	parent, err := decodeHash(json.RawMessage(strconv.Quote(h.ParentHash)))
	if err != nil {
		return RawHeader{}, err
	}
	stateRoot, err := decodeHash(json.RawMessage(strconv.Quote(h.StateRoot)))
	if err != nil {
		return RawHeader{}, err
	}
	extrinsicsRoot, err := decodeHash(json.RawMessage(strconv.Quote(h.ExtrinsicsRoot)))
	if err != nil {
		return RawHeader{}, err
	}
	number, err := strconv.ParseUint(strings.TrimPrefix(h.Number, "0x"), 16, 64)
	if err != nil {
		return RawHeader{}, apierr.Wrap(apierr.Decode, "decode header number", err)
	}

	logs := make([][]byte, 0, len(h.Digest.Logs))
	for _, l := range h.Digest.Logs {
		b, err := hex.DecodeString(strings.TrimPrefix(l, "0x"))
		if err != nil {
			return RawHeader{}, apierr.Wrap(apierr.Decode, "decode digest log", err)
		}
		logs = append(logs, b)
	}

	return RawHeader{
		ParentHash:     parent,
		Number:         number,
		StateRoot:      stateRoot,
		ExtrinsicsRoot: extrinsicsRoot,
		DigestLogs:     logs,
	}, nil
}

// GetBlockExtrinsics fetches a block's body via chain_getBlock and
// returns its raw SCALE-encoded extrinsics (C9 decodes each via C5).
// Only the body is used; the header returned alongside it duplicates
// GetHeader and callers already fetch that independently.
func (c *Client) GetBlockExtrinsics(ctx context.Context, hash chain.Hash) ([][]byte, error) {
	raw, err := c.callWithTimeout(ctx, "chain_getBlock", hash.String())
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, apierr.New(apierr.NotFound, "block not found").WithValue(hash.String())
	}
	var body struct {
		Block struct {
			Extrinsics []string `json:"extrinsics"`
		} `json:"block"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, apierr.Wrap(apierr.Decode, "decode block body", err)
	}
	out := make([][]byte, 0, len(body.Block.Extrinsics))
	for _, hexStr := range body.Block.Extrinsics {
		b, err := hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
		if err != nil {
			return nil, apierr.Wrap(apierr.Decode, "decode extrinsic hex", err)
		}
		out = append(out, b)
	}
	return out, nil
}

// GetBlockHashAt fetches the canonical block hash at a block number.
// Returns NotFound if the chain has not reached that height.
func (c *Client) GetBlockHashAt(ctx context.Context, number uint64) (chain.Hash, error) {
	raw, err := c.callWithTimeout(ctx, "chain_getBlockHash", number)
	if err != nil {
		return chain.Hash{}, err
	}
	if string(raw) == "null" {
		return chain.Hash{}, apierr.New(apierr.NotFound, "block not found at height").WithValue(strconv.FormatUint(number, 10))
	}
	return decodeHash(raw)
}

// GetRuntimeVersion fetches the runtime spec name/version active at a block.
func (c *Client) GetRuntimeVersion(ctx context.Context, at chain.Hash) (RuntimeVersion, error) {
	raw, err := c.callWithTimeout(ctx, "state_getRuntimeVersion", at.String())
	if err != nil {
		return RuntimeVersion{}, err
	}
	var v struct {
		SpecName    string `json:"specName"`
		SpecVersion uint32 `json:"specVersion"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return RuntimeVersion{}, apierr.Wrap(apierr.Decode, "decode runtime version", err)
	}
	return RuntimeVersion{SpecName: v.SpecName, SpecVersion: v.SpecVersion}, nil
}

// GetStorage fetches a raw storage value by key at a block. Returns
// (nil, nil) if the key has no value (option::None), matching the
// upstream "null" response rather than erroring.
func (c *Client) GetStorage(ctx context.Context, key []byte, at chain.Hash) ([]byte, error) {
	raw, err := c.callWithTimeout(ctx, "state_getStorage", "0x"+hex.EncodeToString(key), at.String())
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return decodeHexBytes(raw)
}

// GetRawMetadata fetches the SCALE-encoded runtime metadata blob at a block.
func (c *Client) GetRawMetadata(ctx context.Context, at chain.Hash) ([]byte, error) {
	raw, err := c.callWithTimeout(ctx, "state_getMetadata", at.String())
	if err != nil {
		return nil, err
	}
	return decodeHexBytes(raw)
}

// StateCall invokes a runtime API via state_call.
func (c *Client) StateCall(ctx context.Context, name string, args []byte, at chain.Hash) ([]byte, error) {
	raw, err := c.callWithTimeout(ctx, "state_call", name, "0x"+hex.EncodeToString(args), at.String())
	if err != nil {
		return nil, err
	}
	return decodeHexBytes(raw)
}

// SubmitExtrinsic submits a SCALE-encoded extrinsic and returns its hash.
func (c *Client) SubmitExtrinsic(ctx context.Context, raw []byte) (chain.Hash, error) {
	result, err := c.callWithTimeout(ctx, "author_submitExtrinsic", "0x"+hex.EncodeToString(raw))
	if err != nil {
		return chain.Hash{}, err
	}
	return decodeHash(result)
}

// PaymentQueryInfo invokes payment_queryInfo for a raw extrinsic,
// returning the raw JSON dispatch-info result (weight, class, partialFee).
func (c *Client) PaymentQueryInfo(ctx context.Context, extrinsic []byte, at chain.Hash) (json.RawMessage, error) {
	return c.callWithTimeout(ctx, "payment_queryInfo", "0x"+hex.EncodeToString(extrinsic), at.String())
}

// PaymentQueryFeeDetails invokes payment_queryFeeDetails for a raw
// extrinsic, returning the raw JSON fee-details result
// (inclusionFee.baseFee/lenFee/adjustedWeightFee).
func (c *Client) PaymentQueryFeeDetails(ctx context.Context, extrinsic []byte, at chain.Hash) (json.RawMessage, error) {
	return c.callWithTimeout(ctx, "payment_queryFeeDetails", "0x"+hex.EncodeToString(extrinsic), at.String())
}

// SystemProperties fetches the chain's system properties, notably the
// SS58 address prefix.
func (c *Client) SystemProperties(ctx context.Context) (chain.Info, error) {
	raw, err := c.callWithTimeout(ctx, "system_properties")
	if err != nil {
		return chain.Info{}, err
	}
	var props struct {
		SS58Format uint16 `json:"ss58Format"`
	}
	if err := json.Unmarshal(raw, &props); err != nil {
		return chain.Info{}, apierr.Wrap(apierr.Decode, "decode system properties", err)
	}
	return chain.Info{SS58Prefix: props.SS58Format}, nil
}
