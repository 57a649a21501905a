package extrinsic

import (
	"encoding/hex"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/scale"
	"github.com/subscale/rest-gateway/internal/ss58"
)

const signedBit = 0x80

// multiAddressDiscriminant values, spec.md §4.5 step 2.
const (
	multiAddressID       = 0x00
	multiAddressIndex    = 0x01
	multiAddressRaw      = 0x02
	multiAddressAddress32 = 0x03
	multiAddressAddress20 = 0x04
)

// decodeSigner reads a MultiAddress and renders it as SS58 (for the
// two account-id shapes) per the fixed discriminant table.
func decodeSigner(d *scale.Decoder, ss58Prefix uint16) (string, error) {
	disc, err := d.ReadByte()
	if err != nil {
		return "", err
	}
	switch disc {
	case multiAddressID, multiAddressAddress32:
		raw, err := d.ReadBytes(32)
		if err != nil {
			return "", err
		}
		var account [32]byte
		copy(account[:], raw)
		return ss58.Encode(account, ss58Prefix)

	case multiAddressIndex:
		idx, err := d.ReadCompactUint64()
		if err != nil {
			return "", err
		}
		return "index:" + itoa(idx), nil

	case multiAddressRaw:
		raw, err := d.ReadVecBytes()
		if err != nil {
			return "", err
		}
		return "0x" + hex.EncodeToString(raw), nil

	case multiAddressAddress20:
		raw, err := d.ReadBytes(20)
		if err != nil {
			return "", err
		}
		return "0x" + hex.EncodeToString(raw), nil

	default:
		return "", apierr.New(apierr.Decode, "unknown MultiAddress discriminant")
	}
}

// multiSignature byte widths by discriminant, spec.md §4.5 step 3.
var signatureWidth = map[byte]int{
	0x00: 64, // Ed25519
	0x01: 64, // Sr25519
	0x02: 65, // Ecdsa
}

func decodeSignature(d *scale.Decoder) (string, error) {
	disc, err := d.ReadByte()
	if err != nil {
		return "", err
	}
	width, ok := signatureWidth[disc]
	if !ok {
		return "", apierr.New(apierr.Decode, "unknown MultiSignature discriminant")
	}
	raw, err := d.ReadBytes(width)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(raw), nil
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
