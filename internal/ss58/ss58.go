// Package ss58 renders raw 32-byte account ids as SS58 addresses, and
// parses them back. It is a thin wrapper over go-subkey's ss58 codec
// (grounded on the Substrate-client reference pulled into this pack's
// other_examples/ — see DESIGN.md) — the gateway never implements the
// base58+checksum arithmetic itself.
package ss58

import (
	"fmt"

	subkeyss58 "github.com/vedhavyas/go-subkey/v2/ss58"

	"github.com/subscale/rest-gateway/internal/apierr"
)

// Encode renders a 32-byte account id as an SS58 address under the
// given network/chain prefix.
func Encode(accountID [32]byte, prefix uint16) (string, error) {
	addr, err := subkeyss58.Encode(accountID[:], prefix)
	if err != nil {
		return "", apierr.Wrap(apierr.Decode, "ss58 encode", err)
	}
	return addr, nil
}

// Decode parses an SS58 address back into its raw account id and the
// network prefix it was encoded under.
func Decode(address string) (accountID [32]byte, prefix uint16, err error) {
	raw, network, derr := subkeyss58.Decode(address)
	if derr != nil {
		return accountID, 0, apierr.Wrap(apierr.InvalidInput, "ss58 decode", derr)
	}
	if len(raw) != 32 {
		return accountID, 0, apierr.New(apierr.InvalidInput, fmt.Sprintf("ss58 address decodes to %d bytes, expected 32", len(raw)))
	}
	copy(accountID[:], raw)
	return accountID, network, nil
}
