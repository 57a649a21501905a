package scale

// EncodeCompact writes v using the SCALE compact integer encoding's
// narrowest applicable mode (single-byte, two-byte, four-byte, or
// big-integer), the inverse of Decoder.ReadCompact for the uint64
// range. The gateway only ever needs to encode compact lengths (e.g.
// the Vec<u8> prefix a runtime-API call argument requires), never
// decode its own output, so this has no *big.Int counterpart.
func EncodeCompact(v uint64) []byte {
	switch {
	case v < 1<<6:
		return []byte{byte(v << 2)}
	case v < 1<<14:
		v = v<<2 | 1
		return []byte{byte(v), byte(v >> 8)}
	case v < 1<<30:
		v = v<<2 | 2
		return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	default:
		return encodeCompactBigMode(v)
	}
}

// encodeCompactBigMode handles the big-integer mode: a length byte
// ((byteLen-4)<<2 | 3) followed by the value's little-endian bytes,
// using the minimum number of bytes that represent it.
func encodeCompactBigMode(v uint64) []byte {
	var be []byte
	for v > 0 {
		be = append(be, byte(v))
		v >>= 8
	}
	if len(be) == 0 {
		be = []byte{0}
	}
	out := make([]byte, 0, len(be)+1)
	out = append(out, byte((len(be)-4)<<2|3))
	out = append(out, be...)
	return out
}
