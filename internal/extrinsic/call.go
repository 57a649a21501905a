package extrinsic

import (
	"strings"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/projector"
	"github.com/subscale/rest-gateway/internal/scale"
	"github.com/subscale/rest-gateway/internal/ss58"
)

// decodeCall reads the pallet_index byte and then the pallet's Call
// enum via the resolver's generic variant decode (the pallet's
// CallTypeID is a KindVariant type, so this reuses the same
// discriminant-plus-fields machinery C4 built for any other enum).
// It returns the pallet/call identity plus the call's arguments
// rendered to JSON-ready values via the projector.
func decodeCall(d *scale.Decoder, md *metadata.Metadata, resolver *metadata.Resolver, proj *projector.Projector, opts projector.Options) (palletIndex, callIndex uint8, palletName, callName string, args map[string]any, err error) {
	palletIndex, err = d.ReadByte()
	if err != nil {
		return 0, 0, "", "", nil, err
	}

	pallet, ok := md.PalletByIndex(palletIndex)
	if !ok {
		return palletIndex, 0, "", "", nil, apierr.New(apierr.Decode, "unknown pallet index in call")
	}
	if pallet.CallTypeID < 0 {
		return palletIndex, 0, pallet.Name, "", nil, apierr.New(apierr.Decode, "pallet has no calls")
	}

	callOpts := opts
	callOpts.EVMOverlay = callOpts.EVMOverlay || strings.EqualFold(pallet.Name, "revive")

	v, err := resolver.DecodeValue(d, pallet.CallTypeID)
	if err != nil {
		return palletIndex, 0, pallet.Name, "", nil, err
	}
	if v.Kind != scale.KindVariant {
		return palletIndex, 0, pallet.Name, "", nil, apierr.New(apierr.Decode, "pallet call type did not decode to a variant")
	}

	args = make(map[string]any, len(v.Fields))
	for i, f := range v.Fields {
		rendered := proj.Project(f.Value, f.TypeID, callOpts)
		if looksLikeAccountField(f.Name) {
			rendered = reencodeAsAccountIfRawHash(rendered, f.Value, callOpts.SS58Prefix)
		}
		args[fieldKey(f.Name, i)] = rendered
	}

	return palletIndex, v.VariantIndex, pallet.Name, v.VariantName, args, nil
}

// accountFieldNames are the field-name cues SPEC_FULL.md §4 lists as a
// secondary signal for "this argument is an account". The registry's
// type id already drives account detection in the common case
// (resolver.ClassifyAccount inside the projector); this heuristic only
// fires when that lookup missed and the field still decoded to a bare
// 32-byte blob, which happens for pallets whose Call type wraps a raw
// [u8; 32] instead of a path-tagged AccountId32.
var accountFieldNames = map[string]bool{
	"dest": true, "who": true, "target": true, "controller": true,
	"stash": true, "delegate": true, "validator": true, "nominator": true,
	"owner": true, "beneficiary": true, "approved": true,
}

func looksLikeAccountField(name string) bool {
	if accountFieldNames[name] {
		return true
	}
	return strings.HasPrefix(name, "new_")
}

// reencodeAsAccountIfRawHash upgrades a plain 32-byte hex string to its
// SS58 form when the field name suggests an account but the type
// registry did not already resolve it as one. Any other shape
// (already-SS58, object, array, non-32-byte hex) passes through
// unchanged.
func reencodeAsAccountIfRawHash(rendered any, v *scale.Value, ss58Prefix uint16) any {
	if v == nil || v.Kind != scale.KindBytes || len(v.Bytes) != 32 {
		return rendered
	}
	s, ok := rendered.(string)
	if !ok || len(s) != 66 || s[:2] != "0x" {
		return rendered
	}
	var raw [32]byte
	copy(raw[:], v.Bytes)
	if addr, err := ss58.Encode(raw, ss58Prefix); err == nil {
		return addr
	}
	return rendered
}

func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] = b[0] - 'A' + 'a'
	}
	return string(b)
}

// fieldKey names a call argument: its declared name if it has one,
// otherwise its positional index — calls with more than one unnamed
// tuple argument would otherwise collide on a single literal key.
func fieldKey(name string, index int) string {
	if name != "" {
		return lowerCamel(name)
	}
	return "field" + itoa(uint64(index))
}
