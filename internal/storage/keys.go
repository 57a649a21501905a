// Package storage builds the twox128-hashed storage keys needed to
// read well-known pallet entries directly (System.Events,
// Timestamp.Now) without going through a runtime API. The hash
// construction (N independent seeded XXH64 digests concatenated) is
// the same one go-substrate-rpc-client/v4 relies on for its own
// storage-key helpers, via the same seeded-xxHash64 primitive.
package storage

import (
	"github.com/pierrec/xxHash/xxHash64"
)

// twoX128 is Substrate's "Twox128" storage-key hash: two independent
// XXH64 digests, seeded 0 and 1, each truncated to its 8-byte
// little-endian output and concatenated into 16 bytes. Not a security
// boundary — only a key-space spreader — which is why Substrate is
// content with a non-cryptographic multi-seed hash here.
func twoX128(data []byte) []byte {
	out := make([]byte, 0, 16)
	for seed := uint64(0); seed < 2; seed++ {
		h := xxHash64.New(seed)
		h.Write(data)
		out = append(out, leUint64(h.Sum64())...)
	}
	return out
}

func leUint64(v uint64) []byte {
	return []byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}
}

// PlainKey builds a "plain" (non-map) storage key: twox128(pallet) ++
// twox128(item). Used for System.Events and Timestamp.Now, neither of
// which is a storage map.
func PlainKey(pallet, item string) []byte {
	key := make([]byte, 0, 32)
	key = append(key, twoX128([]byte(pallet))...)
	key = append(key, twoX128([]byte(item))...)
	return key
}

// SystemEventsKey is the well-known key for System.Events.
func SystemEventsKey() []byte {
	return PlainKey("System", "Events")
}

// TimestampNowKey is the well-known key for Timestamp.Now.
func TimestampNowKey() []byte {
	return PlainKey("Timestamp", "Now")
}
