// Package fee implements the fee engine (C7) and its fee-details
// availability cache (C8): a three-tier fallback that prefers an
// exact TransactionFeePaid event over a post-dispatch calculation
// over a pre-dispatch estimate, per spec.md §4.7/§4.8.
package fee

import "github.com/subscale/rest-gateway/internal/events"

// Info is the fee result attached to a signed extrinsic. Kind
// identifies which tier produced it; PartialFee is a decimal string
// (fees routinely exceed float64 precision). The zero value (Kind
// empty) renders as the spec's "no fee info" empty object.
type Info struct {
	Weight     *Weight `json:"weight,omitempty"`
	Class      *string `json:"class,omitempty"`
	PartialFee string  `json:"partialFee,omitempty"`
	Kind       string  `json:"kind,omitempty"`
}

// Weight is an alias for the event classifier's Weight — the fee
// engine's post/pre-dispatch weight figures are the same
// {refTime, proofSize} shape C6 already derives from ExtrinsicSuccess,
// so extrinsic outcomes can be passed straight through without
// conversion.
type Weight = events.Weight

// ChainFeeConfig describes one runtime family's fee-calculation
// support window (spec.md §4.8 / §3 DATA MODEL).
type ChainFeeConfig struct {
	// MinCalcFeeRuntime is the lowest spec version this chain can
	// compute fees for at all; below it, the engine emits {} for
	// every extrinsic regardless of the fee-details cache.
	MinCalcFeeRuntime uint32

	// QueryFeeDetailsUnavailable/Available are inclusive bounds:
	// specVersion <= Unavailable is known-false, specVersion >=
	// Available is known-true. Either may be absent (nil) meaning
	// "unknown, probe the runtime".
	QueryFeeDetailsUnavailable *uint32
	QueryFeeDetailsAvailable   *uint32
}
