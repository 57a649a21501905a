// Package extrinsic implements the extrinsic decoder (C5): envelope,
// signer, signature, transaction extensions (nonce/tip/era), call, and
// hash, following spec.md §4.5 step by step.
package extrinsic

import "github.com/subscale/rest-gateway/internal/chain"

// Extrinsic is one decoded extrinsic, ready for the projector and the
// fee engine. Nil fields mean "not present" (e.g. the signer fields
// of an unsigned extrinsic).
type Extrinsic struct {
	Hash chain.Hash

	Signed    bool
	Signer    *string // SS58 for account ids; "index:N" or hex for other address forms
	Signature *string // hex, discriminant byte stripped

	Nonce *string // decimal string
	Tip   *string // decimal string
	Era   chain.Era

	PalletIndex uint8
	CallIndex   uint8
	PalletName  string
	CallName    string
	Args        map[string]any

	// PaysFee starts as Some(false) for unsigned extrinsics, None for
	// signed (spec.md §4.5 step 7); the event classifier (C6) resolves
	// the signed case from the dispatch outcome.
	PaysFee *bool

	// DecodeWarnings is not filled in by Decode, which fails the whole
	// extrinsic on any decode error instead of omitting a field.
	DecodeWarnings []string
}
