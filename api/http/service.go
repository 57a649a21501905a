package http

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/block"
	"github.com/subscale/rest-gateway/internal/blockid"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/correlate"
	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/rpc"
	"github.com/subscale/rest-gateway/internal/wrap"
)

// ChainFacade is the union of every core interface a connected chain's
// RPC client must satisfy to back a ChainHandle: block resolution
// (C2), block assembly (C9, which embeds the fee engine's Facade),
// range assembly, and dual-chain correlation (C10/C11). *rpc.Client
// satisfies this structurally; tests substitute a fake.
type ChainFacade interface {
	GetFinalizedHead(ctx context.Context) (chain.BlockRef, error)
	GetHeader(ctx context.Context, hash chain.Hash) (rpc.RawHeader, error)
	GetBlockHashAt(ctx context.Context, number uint64) (chain.Hash, error)
	GetBlockExtrinsics(ctx context.Context, hash chain.Hash) ([][]byte, error)
	GetStorage(ctx context.Context, key []byte, at chain.Hash) ([]byte, error)
	GetRuntimeVersion(ctx context.Context, at chain.Hash) (rpc.RuntimeVersion, error)
	PaymentQueryInfo(ctx context.Context, extrinsic []byte, at chain.Hash) (json.RawMessage, error)
	PaymentQueryFeeDetails(ctx context.Context, extrinsic []byte, at chain.Hash) (json.RawMessage, error)
	StateCall(ctx context.Context, name string, args []byte, at chain.Hash) ([]byte, error)
}

// ChainHandle bundles one connected chain's façade, metadata cache, fee
// cache, and block assembler, the per-chain state the gateway process
// holds for the process's lifetime (spec.md §3 Lifecycles).
type ChainHandle struct {
	Type       chain.Type
	Client     ChainFacade
	Metadata   *metadata.Cache
	Assembler  *block.Assembler
	SS58Prefix uint16
}

// Service composes the already-built core components (C1-C11) behind
// the handful of operations spec.md §6's downstream interface names.
// It never branches on chain type inside an operation body (spec.md
// §9 Design Notes); it only uses the chain type to pick which
// ChainHandle and whether correlation is wired at all.
type Service struct {
	Registry *chain.Registry
	Chains   map[chain.Type]*ChainHandle

	// Correlator is non-nil only when both a relay and an Asset Hub
	// chain are configured (spec.md §4.11's "requires a configured
	// relay connection").
	Correlator *correlate.Correlator
	// RelayType/AssetHubType identify which configured chains play
	// those roles for the correlator, when Correlator != nil.
	RelayType, AssetHubType chain.Type

	Logger *zap.Logger
}

func (s *Service) handle(t chain.Type) (*ChainHandle, error) {
	h, ok := s.Chains[t]
	if !ok {
		return nil, apierr.New(apierr.FeatureUnavailable, "chain not configured").WithValue(string(t))
	}
	return h, nil
}

// ResolveBlock implements resolveBlock(chain, blockIdOpt) -> BlockRef.
func (s *Service) ResolveBlock(ctx context.Context, t chain.Type, blockID string) (chain.BlockRef, error) {
	h, err := s.handle(t)
	if err != nil {
		return chain.BlockRef{}, err
	}
	return blockid.Resolve(ctx, h.Client, blockID)
}

// AssembleBlock implements assembleBlock(chain, BlockRef, opts) -> BlockResponse.
func (s *Service) AssembleBlock(ctx context.Context, t chain.Type, ref chain.BlockRef, opts block.Options) (*block.Response, error) {
	h, set, err := s.blocksHandle(t)
	if err != nil {
		return nil, err
	}
	if !set.Blocks {
		return nil, apierr.New(apierr.FeatureUnavailable, "block endpoints are not enabled for this chain").WithValue(string(t))
	}
	return h.Assembler.Assemble(ctx, ref, opts)
}

// AssembleBlockRange implements assembleBlockRange(chain, from, to, opts) -> [BlockResponse].
func (s *Service) AssembleBlockRange(ctx context.Context, t chain.Type, from, to uint64, opts block.Options) ([]*block.Response, error) {
	h, set, err := s.blocksHandle(t)
	if err != nil {
		return nil, err
	}
	if !set.Blocks {
		return nil, apierr.New(apierr.FeatureUnavailable, "block endpoints are not enabled for this chain").WithValue(string(t))
	}
	return h.Assembler.AssembleRange(ctx, h.Client, from, to, opts)
}

// GetExtrinsic implements getExtrinsic(chain, BlockRef, i, opts) -> ExtrinsicIndexResponse.
func (s *Service) GetExtrinsic(ctx context.Context, t chain.Type, ref chain.BlockRef, index int, opts block.Options) (*block.Extrinsic, error) {
	resp, err := s.AssembleBlock(ctx, t, ref, opts)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(resp.Extrinsics) {
		return nil, apierr.New(apierr.NotFound, "extrinsic index out of range").WithValue(strconv.Itoa(index))
	}
	return &resp.Extrinsics[index], nil
}

func (s *Service) blocksHandle(t chain.Type) (*ChainHandle, chain.HandlerSet, error) {
	h, err := s.handle(t)
	if err != nil {
		return nil, chain.HandlerSet{}, err
	}
	set, ok := s.Registry.HandlersFor(t)
	if !ok {
		return nil, chain.HandlerSet{}, apierr.New(apierr.FeatureUnavailable, "chain type is not registered").WithValue(string(t))
	}
	return h, set, nil
}

// CorrelateRcToAh implements correlateRcToAh(rcBlockRef) -> [AssetHubBlock].
func (s *Service) CorrelateRcToAh(ctx context.Context, rc chain.BlockRef) ([]correlate.AssetHubBlock, error) {
	if s.Correlator == nil {
		return nil, apierr.New(apierr.FeatureUnavailable, "dual-chain correlation requires both a relay and an Asset Hub chain to be configured")
	}
	return s.Correlator.RelayToAssetHub(ctx, rc)
}

// CorrelateAhToRc implements correlateAhToRc(ahBlockRef, maxDepth) -> option<RcInclusion>.
func (s *Service) CorrelateAhToRc(ctx context.Context, ah chain.BlockRef, maxDepth int) (*correlate.RcInclusion, error) {
	if s.Correlator == nil {
		return nil, apierr.New(apierr.FeatureUnavailable, "dual-chain correlation requires both a relay and an Asset Hub chain to be configured")
	}
	relayClient := s.Chains[s.RelayType].Client
	return s.Correlator.AssetHubToRelay(ctx, ah, relayClient, maxDepth)
}

// WrapWithRc implements wrapWithRc(rcBlockRef, ahPayloads) -> [Wrapped],
// running the per-block assembly over every correlated Asset Hub
// block and merging in the rc* fields (spec.md §4.11).
func (s *Service) WrapWithRc(ctx context.Context, rc chain.BlockRef, opts block.Options) ([]wrap.Wrapped, error) {
	ahBlocks, err := s.CorrelateRcToAh(ctx, rc)
	if err != nil {
		return nil, err
	}
	ahHandle, err := s.handle(s.AssetHubType)
	if err != nil {
		return nil, err
	}
	payloads := make([]wrap.Payload, len(ahBlocks))
	for i, ab := range ahBlocks {
		resp, err := ahHandle.Assembler.Assemble(ctx, chain.BlockRef{Hash: ab.Hash, Number: ab.Number}, opts)
		if err != nil {
			return nil, err
		}
		payloads[i] = toPayload(resp)
	}
	return wrap.WithRc(rc, ahBlocks, payloads)
}

// ToRcFormat reshapes a wrapped RC response into the grouped
// {rcBlock, parachainDataPerBlock} shape (spec.md §4.11's format=rc
// post-processing pass).
func (s *Service) ToRcFormat(ctx context.Context, rc chain.BlockRef, wrapped []wrap.Wrapped) (*wrap.RcFormatted, error) {
	relayHandle, err := s.handle(s.RelayType)
	if err != nil {
		return nil, err
	}
	return wrap.ToRcFormat(ctx, relayHandle.Client, rc, wrapped)
}

// toPayload converts an assembled block response to the generic
// map[string]any shape wrap.WithRc merges the rc* fields into.
func toPayload(resp *block.Response) wrap.Payload {
	return wrap.Payload{
		"number":         resp.Number,
		"hash":           resp.Hash,
		"parentHash":     resp.ParentHash,
		"stateRoot":      resp.StateRoot,
		"extrinsicsRoot": resp.ExtrinsicsRoot,
		"authorId":       resp.AuthorID,
		"logs":           resp.Logs,
		"extrinsics":     resp.Extrinsics,
		"onInitialize":   resp.OnInitialize,
		"onFinalize":     resp.OnFinalize,
	}
}
