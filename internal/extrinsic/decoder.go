package extrinsic

import (
	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/projector"
	"github.com/subscale/rest-gateway/internal/scale"
	"golang.org/x/crypto/blake2b"
)

// Decode turns one extrinsic's raw body (the bytes inside
// block.extrinsics[i] with the outer Vec<u8> length prefix already
// stripped, as `block_getBlock` returns them) into an Extrinsic.
//
// Decoding follows spec.md §4.5 step by step: envelope, signer,
// signature, transaction extensions, call, hash, pays_fee seed. Any
// decode failure (version byte, signer, signature, extensions, call,
// or bytes left over once the call is decoded) fails the whole
// extrinsic with a Decode error; no single field is omitted on its
// own, and DecodeWarnings is not filled in.
func Decode(raw []byte, md *metadata.Metadata, resolver *metadata.Resolver, ss58Prefix uint16) (*Extrinsic, error) {
	hash := blake2b.Sum256(raw)

	ex := &Extrinsic{Hash: chain.Hash(hash), Era: chain.ImmortalEra}

	d := scale.NewDecoder(raw)
	version, err := d.ReadByte()
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "read extrinsic version byte", err)
	}
	ex.Signed = version&signedBit != 0

	proj := projector.New(resolver)
	opts := projector.Options{SS58Prefix: ss58Prefix}

	if ex.Signed {
		signer, err := decodeSigner(d, ss58Prefix)
		if err != nil {
			return nil, apierr.Wrap(apierr.Decode, "decode extrinsic signer", err)
		}
		ex.Signer = &signer

		sig, err := decodeSignature(d)
		if err != nil {
			return nil, apierr.Wrap(apierr.Decode, "decode extrinsic signature", err)
		}
		ex.Signature = &sig

		exts, err := walkExtensions(d, resolver, md.SignedExtensions)
		if err != nil {
			return nil, apierr.Wrap(apierr.Decode, "decode transaction extensions", err)
		}
		ex.Nonce = exts.nonce
		ex.Tip = exts.tip
		ex.Era = exts.era
	} else {
		// Unsigned extrinsics start PaysFee at Some(false); signed
		// extrinsics leave it nil until the event classifier (C6)
		// resolves it from the dispatch outcome.
		paysFee := false
		ex.PaysFee = &paysFee
	}

	palletIndex, callIndex, palletName, callName, args, err := decodeCall(d, md, resolver, proj, opts)
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "decode extrinsic call", err)
	}
	if !d.Done() {
		return nil, apierr.New(apierr.Decode, "trailing bytes after extrinsic call")
	}
	ex.PalletIndex = palletIndex
	ex.CallIndex = callIndex
	ex.PalletName = palletName
	ex.CallName = callName
	ex.Args = args

	return ex, nil
}
