package block

import (
	"context"
	"encoding/hex"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/events"
	"github.com/subscale/rest-gateway/internal/extrinsic"
	"github.com/subscale/rest-gateway/internal/fee"
	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/projector"
	"github.com/subscale/rest-gateway/internal/rpc"
	"github.com/subscale/rest-gateway/internal/storage"
)

// Facade is the subset of the chain RPC façade (C1) the assembler
// needs: header/body/events/runtime-version fetch plus everything the
// fee engine (C7) needs for enrichment.
type Facade interface {
	GetHeader(ctx context.Context, hash chain.Hash) (rpc.RawHeader, error)
	GetBlockExtrinsics(ctx context.Context, hash chain.Hash) ([][]byte, error)
	GetStorage(ctx context.Context, key []byte, at chain.Hash) ([]byte, error)
	GetRuntimeVersion(ctx context.Context, at chain.Hash) (rpc.RuntimeVersion, error)
	fee.Facade
}

// MetadataSource is the subset of the metadata cache (C3) the
// assembler needs.
type MetadataSource interface {
	At(ctx context.Context, at chain.Hash) (*metadata.Metadata, error)
}

// Assembler is the block assembler (C9): single-block and bounded
// range assembly over one chain connection.
type Assembler struct {
	Facade     Facade
	Metadata   MetadataSource
	FeeCache   *fee.Cache
	SS58Prefix uint16

	// Concurrency bounds fan-out for AssembleRange (spec.md §5).
	// Defaults to 4 when unset.
	Concurrency int
}

func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

// Assemble runs the single-block path (spec.md §4.9): resolve metadata,
// fetch header/body/events/runtime-version concurrently, decode and
// classify, and optionally enrich signed extrinsics with fee info.
func (a *Assembler) Assemble(ctx context.Context, ref chain.BlockRef, opts Options) (*Response, error) {
	md, err := a.Metadata.At(ctx, ref.Hash)
	if err != nil {
		return nil, err
	}
	resolver := metadata.NewResolver(md)
	proj := projector.New(resolver)
	projOpts := projector.Options{SS58Prefix: a.SS58Prefix}

	var header rpc.RawHeader
	var rawExtrinsics [][]byte
	var eventsRaw []byte
	var runtimeVersion rpc.RuntimeVersion

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := a.Facade.GetHeader(gctx, ref.Hash)
		if err != nil {
			return err
		}
		header = h
		return nil
	})
	g.Go(func() error {
		ex, err := a.Facade.GetBlockExtrinsics(gctx, ref.Hash)
		if err != nil {
			return err
		}
		rawExtrinsics = ex
		return nil
	})
	g.Go(func() error {
		raw, err := a.Facade.GetStorage(gctx, storage.SystemEventsKey(), ref.Hash)
		if err != nil {
			return err
		}
		eventsRaw = raw
		return nil
	})
	if !opts.NoFees {
		g.Go(func() error {
			rv, err := a.Facade.GetRuntimeVersion(gctx, ref.Hash)
			if err != nil {
				return err
			}
			runtimeVersion = rv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []events.Record
	if len(eventsRaw) > 0 {
		records, err = events.Decode(eventsRaw, md, resolver, proj, projOpts)
		if err != nil {
			return nil, apierr.Wrap(apierr.Decode, "decode block events", err)
		}
	}
	classification := events.Classify(records)

	decoded := make([]*extrinsic.Extrinsic, 0, len(rawExtrinsics))
	for _, raw := range rawExtrinsics {
		ex, err := extrinsic.Decode(raw, md, resolver, a.SS58Prefix)
		if err != nil {
			return nil, apierr.Wrap(apierr.Decode, "decode block extrinsic", err)
		}
		decoded = append(decoded, ex)
	}

	resp := &Response{
		Number:         strconv.FormatUint(ref.Number, 10),
		Hash:           ref.Hash.String(),
		ParentHash:     header.ParentHash.String(),
		StateRoot:      header.StateRoot.String(),
		ExtrinsicsRoot: header.ExtrinsicsRoot.String(),
		Logs:           DecodeDigestLogs(header.DigestLogs),
		OnInitialize:   renderEvents(classification.OnInitialize),
		OnFinalize:     renderEvents(classification.OnFinalize),
		Extrinsics:     make([]Extrinsic, 0, len(decoded)),
	}

	for i, ex := range decoded {
		idx := uint32(i)
		bucket := classification.PerExtrinsic[idx]
		outcome, hasOutcome := classification.Outcomes[idx]

		success := !ex.Signed || (hasOutcome && outcome.Success)
		paysFee := ex.PaysFee
		if paysFee == nil && hasOutcome {
			paysFee = outcome.PaysFee
		}

		var info fee.Info
		if !opts.NoFees && ex.Signed && paysFee != nil && *paysFee {
			info = fee.Compute(ctx, a.Facade, a.FeeCache, runtimeVersion.SpecName, runtimeVersion.SpecVersion, rawExtrinsics[i], header.ParentHash, outcome, bucket)
		}

		var sig *Signature
		if ex.Signer != nil && ex.Signature != nil {
			sig = &Signature{Signer: *ex.Signer, Signature: *ex.Signature}
		}

		resp.Extrinsics = append(resp.Extrinsics, Extrinsic{
			Method:    Method{Pallet: lowerCamel(ex.PalletName), Method: lowerCamel(ex.CallName)},
			Args:      ex.Args,
			Signature: sig,
			Nonce:     ex.Nonce,
			Tip:       ex.Tip,
			Era:       ex.Era,
			Hash:      ex.Hash.String(),
			RawHex:    "0x" + hex.EncodeToString(rawExtrinsics[i]),
			Events:    renderEvents(bucket),
			Success:   success,
			PaysFee:   paysFee,
			Info:      info,
		})
	}

	return resp, nil
}
