package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/block"
	"github.com/subscale/rest-gateway/internal/chain"
)

// writeJSON sets the JSON content type, writes status, and encodes v
// as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the {"error": "..."} envelope with the status
// spec.md §6/§7 maps from the error's kind.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus()
		message = apiErr.Message
		if apiErr.Value != "" {
			message = apiErr.Message + ": " + apiErr.Value
		}
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// blockOptionsFromQuery reads the opts=eventDocs/extrinsicDocs/noFees
// query flags shared by every block-shaped endpoint (spec.md §9
// assembleBlock(opts)).
func blockOptionsFromQuery(r *http.Request) block.Options {
	q := r.URL.Query()
	return block.Options{
		EventDocs:     q.Get("eventDocs") == "true",
		ExtrinsicDocs: q.Get("extrinsicDocs") == "true",
		NoFees:        q.Get("noFees") == "true",
	}
}

// handleGetBlock implements the resolve+assemble single block wiring:
// GET /chains/{chainType}/blocks/{blockId}. blockId may be "head" as
// a friendlier alias for the absent-blockId grammar (C2).
func (s *Service) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := chain.Type(chi.URLParam(r, "chainType"))
	blockID := chi.URLParam(r, "blockId")
	if blockID == "head" {
		blockID = ""
	}

	ref, err := s.ResolveBlock(ctx, t, blockID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.AssembleBlock(ctx, t, ref, blockOptionsFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetBlockRange implements the bounded range wiring:
// GET /chains/{chainType}/block-range?from=N&to=M.
func (s *Service) handleGetBlockRange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := chain.Type(chi.URLParam(r, "chainType"))
	q := r.URL.Query()
	fromStr, toStr := q.Get("from"), q.Get("to")
	if fromStr == "" || toStr == "" {
		writeError(w, block.MissingRange())
		return
	}
	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		writeError(w, apierr.Invalid("from must be a decimal block number", fromStr))
		return
	}
	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		writeError(w, apierr.Invalid("to must be a decimal block number", toStr))
		return
	}

	resp, err := s.AssembleBlockRange(ctx, t, from, to, blockOptionsFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetExtrinsic implements the single-extrinsic wiring:
// GET /chains/{chainType}/blocks/{blockId}/extrinsics/{index}.
func (s *Service) handleGetExtrinsic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := chain.Type(chi.URLParam(r, "chainType"))
	blockID := chi.URLParam(r, "blockId")
	if blockID == "head" {
		blockID = ""
	}
	indexStr := chi.URLParam(r, "index")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		writeError(w, apierr.Invalid("extrinsic index must be a non-negative integer", indexStr))
		return
	}

	ref, err := s.ResolveBlock(ctx, t, blockID)
	if err != nil {
		writeError(w, err)
		return
	}
	ex, err := s.GetExtrinsic(ctx, t, ref, index, blockOptionsFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// handleGetAssetHubBlocks implements the RC->AH correlation wiring:
// GET /chains/{chainType}/blocks/{blockId}/asset-hub-blocks
// (spec.md §4.10/§4.11), honoring format=rc for the grouped reshape.
func (s *Service) handleGetAssetHubBlocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := chain.Type(chi.URLParam(r, "chainType"))
	blockID := chi.URLParam(r, "blockId")
	if blockID == "head" {
		blockID = ""
	}

	ref, err := s.ResolveBlock(ctx, t, blockID)
	if err != nil {
		writeError(w, err)
		return
	}

	wrapped, err := s.WrapWithRc(ctx, ref, blockOptionsFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "rc" {
		formatted, err := s.ToRcFormat(ctx, ref, wrapped)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, formatted)
		return
	}
	writeJSON(w, http.StatusOK, wrapped)
}

// handleHealth is the process liveness probe; it does not touch any
// chain connection, matching the teacher's dependency-free /health.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
