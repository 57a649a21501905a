// Package scale implements a minimal SCALE (Simple Concatenated
// Aggregate Little-Endian) codec reader. Unlike
// centrifuge/go-substrate-rpc-client's scale.Decoder, which decodes
// into statically-typed Go destinations via reflection, this decoder
// is cursor-based and primitive-only: internal/metadata drives it
// using a runtime type-id tree, since the gateway never knows its
// destination shape ahead of time (spec.md §4.3/§9 "dynamic /
// duck-typed JSON" requirement). Conventions (byte order, compact
// encoding, option/bool control bytes) follow the same wire format
// gsrpc implements; no gsrpc package is imported (extrinsic hashing
// uses golang.org/x/crypto/blake2b).
package scale

import (
	"fmt"
	"math/big"

	"github.com/subscale/rest-gateway/internal/apierr"
)

// Decoder reads SCALE-encoded primitives from an in-memory byte slice.
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder wraps raw bytes for sequential SCALE decoding.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining reports how many bytes are left unconsumed.
func (d *Decoder) Remaining() int { return len(d.data) - d.pos }

// Done reports whether the entire input has been consumed.
func (d *Decoder) Done() bool { return d.pos >= len(d.data) }

func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, apierr.New(apierr.Decode, fmt.Sprintf("scale: need %d bytes, have %d", n, d.Remaining()))
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// ReadByte consumes and returns a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBytes consumes and returns n raw bytes (no length prefix).
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadBool decodes a SCALE bool: 0x00 false, 0x01 true.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, apierr.New(apierr.Decode, fmt.Sprintf("scale: invalid bool byte 0x%02x", b))
	}
}

// ReadUint reads a little-endian fixed-width unsigned integer of the
// given byte width (1, 2, 4, or 8) as a uint64.
func (d *Decoder) ReadUint(width int) (uint64, error) {
	b, err := d.take(width)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// ReadUintBig reads a little-endian fixed-width unsigned integer of
// arbitrary byte width (used for u128/u256) as a big.Int.
func (d *Decoder) ReadUintBig(width int) (*big.Int, error) {
	b, err := d.take(width)
	if err != nil {
		return nil, err
	}
	le := make([]byte, width)
	for i, v := range b {
		le[width-1-i] = v
	}
	return new(big.Int).SetBytes(le), nil
}

// ReadCompact decodes a SCALE compact integer, returning it as a
// big.Int (the caller narrows to uint64 when a bounded width is known
// to be safe, e.g. block numbers).
func (d *Decoder) ReadCompact() (*big.Int, error) {
	first, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	mode := first & 0x03
	switch mode {
	case 0: // single-byte mode: value in top 6 bits
		return big.NewInt(int64(first >> 2)), nil
	case 1: // two-byte mode
		second, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		v := uint64(first)>>2 | uint64(second)<<6
		return new(big.Int).SetUint64(v), nil
	case 2: // four-byte mode
		rest, err := d.ReadBytes(3)
		if err != nil {
			return nil, err
		}
		v := uint64(first) >> 2
		v |= uint64(rest[0]) << 6
		v |= uint64(rest[1]) << 14
		v |= uint64(rest[2]) << 22
		return new(big.Int).SetUint64(v), nil
	default: // big-integer mode: top 6 bits encode (byteLen - 4)
		byteLen := int(first>>2) + 4
		b, err := d.ReadBytes(byteLen)
		if err != nil {
			return nil, err
		}
		le := make([]byte, byteLen)
		for i, v := range b {
			le[byteLen-1-i] = v
		}
		return new(big.Int).SetBytes(le), nil
	}
}

// ReadCompactUint64 decodes a compact integer and narrows it to
// uint64, failing with Decode if it overflows.
func (d *Decoder) ReadCompactUint64() (uint64, error) {
	v, err := d.ReadCompact()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, apierr.New(apierr.Decode, "scale: compact integer overflows uint64")
	}
	return v.Uint64(), nil
}

// ReadOptionPresence reads the presence byte of an Option<T>/Some-None
// encoding, returning false if absent so the caller skips decoding T.
func (d *Decoder) ReadOptionPresence() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, apierr.New(apierr.Decode, fmt.Sprintf("scale: invalid option byte 0x%02x", b))
	}
}

// ReadString decodes a SCALE Vec<u8> interpreted as a UTF-8 string.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadCompactUint64()
	if err != nil {
		return "", err
	}
	b, err := d.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadVecBytes decodes a compact-length-prefixed Vec<u8>.
func (d *Decoder) ReadVecBytes() ([]byte, error) {
	n, err := d.ReadCompactUint64()
	if err != nil {
		return nil, err
	}
	return d.ReadBytes(int(n))
}

// ReadBitSequence decodes a BitVec<u8, Lsb0>: a compact bit count
// followed by the ceil(bits/8) packed bytes, returned as a []bool.
func (d *Decoder) ReadBitSequence() ([]bool, error) {
	bits, err := d.ReadCompactUint64()
	if err != nil {
		return nil, err
	}
	byteLen := (int(bits) + 7) / 8
	raw, err := d.ReadBytes(byteLen)
	if err != nil {
		return nil, err
	}
	out := make([]bool, bits)
	for i := range out {
		out[i] = raw[i/8]&(1<<uint(i%8)) != 0
	}
	return out, nil
}
