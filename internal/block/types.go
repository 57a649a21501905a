// Package block implements the block assembler (C9): composing a
// header, its decoded extrinsics, and their classified events into
// one response, with bounded-concurrency range assembly on top.
package block

import (
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/events"
	"github.com/subscale/rest-gateway/internal/fee"
)

// Event is one extrinsic or on-initialize/on-finalize event in its
// response shape. For a variant with no fields Data is an empty map,
// omitted from the JSON, so the method name alone carries the
// information.
type Event struct {
	Pallet string         `json:"pallet"`
	Method string         `json:"method"`
	Data   map[string]any `json:"data,omitempty"`
	Docs   *string        `json:"docs,omitempty"`
}

// Extrinsic is one decoded, classified extrinsic in response form.
type Extrinsic struct {
	Method    Method  `json:"method"`
	Args      map[string]any `json:"args"`
	Signature *Signature `json:"signature,omitempty"`
	Nonce     *string    `json:"nonce,omitempty"`
	Tip       *string    `json:"tip,omitempty"`
	Era       chain.Era  `json:"era"`
	Hash      string     `json:"hash"`
	RawHex    string     `json:"rawHex"`
	Events    []Event    `json:"events"`
	Success   bool       `json:"success"`
	PaysFee   *bool      `json:"paysFee,omitempty"`
	Info      fee.Info   `json:"info"`
	Docs      *string    `json:"docs,omitempty"`
}

// Method identifies the pallet/call pair, both lowerCamel-cased.
type Method struct {
	Pallet string `json:"pallet"`
	Method string `json:"method"`
}

// Signature is the signer/signature pair present on signed extrinsics.
type Signature struct {
	Signer    string `json:"signer"`
	Signature string `json:"signature"`
}

// Response is the full assembled block (spec.md §4.9).
type Response struct {
	Number         string      `json:"number"`
	Hash           string      `json:"hash"`
	ParentHash     string      `json:"parentHash"`
	StateRoot      string      `json:"stateRoot"`
	ExtrinsicsRoot string      `json:"extrinsicsRoot"`
	AuthorID       *string     `json:"authorId,omitempty"`
	Logs           []DigestLog `json:"logs"`
	Extrinsics     []Extrinsic `json:"extrinsics"`
	OnInitialize   []Event     `json:"onInitialize"`
	OnFinalize     []Event     `json:"onFinalize"`
}

// Options toggles the optional doc-string enrichment and fee
// computation, per spec.md §9 assembleBlock(opts).
type Options struct {
	EventDocs     bool
	ExtrinsicDocs bool
	NoFees        bool
}

func renderEvent(r events.Record) Event {
	return Event{Pallet: r.PalletName, Method: r.EventName, Data: r.Data}
}

func renderEvents(rs []events.Record) []Event {
	out := make([]Event, 0, len(rs))
	for _, r := range rs {
		out = append(out, renderEvent(r))
	}
	return out
}
