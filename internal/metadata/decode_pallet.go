package metadata

import (
	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/scale"
)

// decodePallet decodes one PalletMetadata entry. Storage/constant/error
// sub-structures are walked (to keep the cursor in sync) but their
// contents are discarded — the gateway only needs each pallet's name,
// index, and call/event type ids.
func decodePallet(d *scale.Decoder) (Pallet, error) {
	name, err := d.ReadString()
	if err != nil {
		return Pallet{}, apierr.Wrap(apierr.Decode, "read pallet name", err)
	}

	if err := skipStorageMetadata(d); err != nil {
		return Pallet{}, err
	}

	callTypeID, err := skipPalletTypeEntry(d)
	if err != nil {
		return Pallet{}, err
	}

	eventTypeID, err := skipPalletTypeEntry(d)
	if err != nil {
		return Pallet{}, err
	}

	if err := skipConstants(d); err != nil {
		return Pallet{}, err
	}

	if _, err := skipPalletTypeEntry(d); err != nil { // error type
		return Pallet{}, err
	}

	index, err := d.ReadByte()
	if err != nil {
		return Pallet{}, err
	}

	return Pallet{Name: name, Index: index, CallTypeID: callTypeID, EventTypeID: eventTypeID}, nil
}

// skipPalletTypeEntry reads an Option<{ty: compact<u32>}> entry
// (pallet calls/events/errors all share this shape) and returns the
// type id, or -1 if absent.
func skipPalletTypeEntry(d *scale.Decoder) (int, error) {
	present, err := d.ReadOptionPresence()
	if err != nil {
		return -1, err
	}
	if !present {
		return -1, nil
	}
	id, err := d.ReadCompactUint64()
	if err != nil {
		return -1, err
	}
	return int(id), nil
}

// skipStorageMetadata reads Option<PalletStorageMetadata{ prefix:
// String, entries: Vec<StorageEntryMetadata> }> and discards it.
func skipStorageMetadata(d *scale.Decoder) error {
	present, err := d.ReadOptionPresence()
	if err != nil {
		return err
	}
	if !present {
		return nil
	}
	if _, err := d.ReadString(); err != nil { // prefix
		return err
	}
	n, err := d.ReadCompactUint64()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if err := skipStorageEntry(d); err != nil {
			return err
		}
	}
	return nil
}

// skipStorageEntry reads one StorageEntryMetadata: { name: String,
// modifier: u8, ty: StorageEntryType, default: Vec<u8>, docs:
// Vec<String> }. StorageEntryType is Plain(compact<u32>) | Map{hashers:
// Vec<u8 discriminant>, key: compact<u32>, value: compact<u32>}.
func skipStorageEntry(d *scale.Decoder) error {
	if _, err := d.ReadString(); err != nil { // name
		return err
	}
	if _, err := d.ReadByte(); err != nil { // modifier
		return err
	}

	tyDisc, err := d.ReadByte()
	if err != nil {
		return err
	}
	switch tyDisc {
	case 0: // Plain
		if _, err := d.ReadCompactUint64(); err != nil {
			return err
		}
	case 1: // Map
		hashersN, err := d.ReadCompactUint64()
		if err != nil {
			return err
		}
		for i := uint64(0); i < hashersN; i++ {
			if _, err := d.ReadByte(); err != nil {
				return err
			}
		}
		if _, err := d.ReadCompactUint64(); err != nil { // key type
			return err
		}
		if _, err := d.ReadCompactUint64(); err != nil { // value type
			return err
		}
	default:
		return apierr.New(apierr.Decode, "unknown storage entry type discriminant")
	}

	if _, err := d.ReadVecBytes(); err != nil { // default
		return err
	}
	if _, err := decodeStringVec(d); err != nil { // docs
		return err
	}
	return nil
}

// skipConstants reads Vec<PalletConstantMetadata{ name: String, ty:
// compact<u32>, value: Vec<u8>, docs: Vec<String> }> and discards it.
func skipConstants(d *scale.Decoder) error {
	n, err := d.ReadCompactUint64()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if _, err := d.ReadString(); err != nil {
			return err
		}
		if _, err := d.ReadCompactUint64(); err != nil {
			return err
		}
		if _, err := d.ReadVecBytes(); err != nil {
			return err
		}
		if _, err := decodeStringVec(d); err != nil {
			return err
		}
	}
	return nil
}

// decodeExtrinsicMetadata reads ExtrinsicMetadata: { ty: compact<u32>,
// version: u8, signed_extensions: Vec<SignedExtensionMetadata{
// identifier: String, ty: compact<u32>, additional_signed: compact<u32>
// }> } and returns the extension identifiers in declared order.
func decodeExtrinsicMetadata(d *scale.Decoder, version byte) ([]SignedExtension, error) {
	if _, err := d.ReadCompactUint64(); err != nil { // extrinsic type id
		return nil, err
	}
	if _, err := d.ReadByte(); err != nil { // extrinsic format version
		return nil, err
	}

	n, err := d.ReadCompactUint64()
	if err != nil {
		return nil, err
	}
	extensions := make([]SignedExtension, n)
	for i := range extensions {
		identifier, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		typeID, err := d.ReadCompactUint64()
		if err != nil {
			return nil, err
		}
		if _, err := d.ReadCompactUint64(); err != nil { // additional_signed
			return nil, err
		}
		extensions[i] = SignedExtension{Identifier: identifier, TypeID: int(typeID)}
	}
	return extensions, nil
}
