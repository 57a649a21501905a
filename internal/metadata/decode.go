package metadata

import (
	"fmt"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/scale"
)

const metadataMagic = 0x6174656d // "meta" little-endian

// minSupportedVersion is the oldest frame-metadata portable-registry
// version this decoder understands. Earlier versions (V0-V13) used an
// ad-hoc non-portable encoding with no type registry and are not
// emitted by any runtime the gateway targets.
const minSupportedVersion = 14

// Decode parses a raw state_getMetadata blob into a Metadata value.
// Only the pieces the gateway's decode paths need (the portable type
// registry and each pallet's call/event type ids) are extracted; pallet
// storage/constant/error metadata is walked structurally to stay in
// sync with the cursor but discarded.
func Decode(raw []byte, specVersion uint32, specName string) (*Metadata, error) {
	d := scale.NewDecoder(raw)

	magic, err := d.ReadUint(4)
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "read metadata magic", err)
	}
	if uint32(magic) != metadataMagic {
		return nil, apierr.New(apierr.Decode, fmt.Sprintf("unexpected metadata magic 0x%x", magic))
	}

	version, err := d.ReadByte()
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "read metadata version", err)
	}
	if version < minSupportedVersion {
		return nil, apierr.New(apierr.FeatureUnavailable, fmt.Sprintf("metadata version %d predates the portable type registry", version))
	}

	types, err := decodeTypeRegistry(d)
	if err != nil {
		return nil, err
	}

	pallets, err := decodePallets(d)
	if err != nil {
		return nil, err
	}

	extensions, err := decodeExtrinsicMetadata(d, version)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		SpecVersion:      specVersion,
		SpecName:         specName,
		Types:            types,
		Pallets:          pallets,
		SignedExtensions: extensions,
	}, nil
}

func decodeTypeRegistry(d *scale.Decoder) (map[int]*TypeDef, error) {
	n, err := d.ReadCompactUint64()
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "read type registry length", err)
	}

	types := make(map[int]*TypeDef, n)
	for i := uint64(0); i < n; i++ {
		id, err := d.ReadCompactUint64()
		if err != nil {
			return nil, apierr.Wrap(apierr.Decode, "read portable type id", err)
		}
		td, err := decodeType(d)
		if err != nil {
			return nil, err
		}
		types[int(id)] = td
	}
	return types, nil
}

func decodeStringVec(d *scale.Decoder) ([]string, error) {
	n, err := d.ReadCompactUint64()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		s, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func decodeType(d *scale.Decoder) (*TypeDef, error) {
	path, err := decodeStringVec(d)
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "read type path", err)
	}

	// type_params: Vec<TypeParameter{ name: String, type: Option<compact<u32>> }>
	paramCount, err := d.ReadCompactUint64()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < paramCount; i++ {
		if _, err := d.ReadString(); err != nil {
			return nil, err
		}
		present, err := d.ReadOptionPresence()
		if err != nil {
			return nil, err
		}
		if present {
			if _, err := d.ReadCompactUint64(); err != nil {
				return nil, err
			}
		}
	}

	td, err := decodeTypeDef(d)
	if err != nil {
		return nil, err
	}
	td.Path = path

	// docs: Vec<String>, discarded.
	if _, err := decodeStringVec(d); err != nil {
		return nil, err
	}

	return td, nil
}

func decodeField(d *scale.Decoder) (Field, error) {
	namePresent, err := d.ReadOptionPresence()
	if err != nil {
		return Field{}, err
	}
	var name string
	if namePresent {
		name, err = d.ReadString()
		if err != nil {
			return Field{}, err
		}
	}

	typeID, err := d.ReadCompactUint64()
	if err != nil {
		return Field{}, err
	}

	typeNamePresent, err := d.ReadOptionPresence()
	if err != nil {
		return Field{}, err
	}
	var typeName string
	if typeNamePresent {
		typeName, err = d.ReadString()
		if err != nil {
			return Field{}, err
		}
	}

	if _, err := decodeStringVec(d); err != nil { // docs
		return Field{}, err
	}

	return Field{Name: name, TypeID: int(typeID), TypeName: typeName}, nil
}

func decodeFields(d *scale.Decoder) ([]Field, error) {
	n, err := d.ReadCompactUint64()
	if err != nil {
		return nil, err
	}
	out := make([]Field, n)
	for i := range out {
		f, err := decodeField(d)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func decodeVariant(d *scale.Decoder) (Variant, error) {
	name, err := d.ReadString()
	if err != nil {
		return Variant{}, err
	}
	fields, err := decodeFields(d)
	if err != nil {
		return Variant{}, err
	}
	index, err := d.ReadByte()
	if err != nil {
		return Variant{}, err
	}
	if _, err := decodeStringVec(d); err != nil { // docs
		return Variant{}, err
	}
	return Variant{Name: name, Index: index, Fields: fields}, nil
}

func decodeTypeDef(d *scale.Decoder) (*TypeDef, error) {
	disc, err := d.ReadByte()
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "read type_def discriminant", err)
	}

	switch disc {
	case 0: // Composite
		fields, err := decodeFields(d)
		if err != nil {
			return nil, err
		}
		return &TypeDef{Kind: KindComposite, Fields: fields}, nil

	case 1: // Variant
		n, err := d.ReadCompactUint64()
		if err != nil {
			return nil, err
		}
		variants := make([]Variant, n)
		for i := range variants {
			v, err := decodeVariant(d)
			if err != nil {
				return nil, err
			}
			variants[i] = v
		}
		return &TypeDef{Kind: KindVariant, Variants: variants}, nil

	case 2: // Sequence
		elem, err := d.ReadCompactUint64()
		if err != nil {
			return nil, err
		}
		return &TypeDef{Kind: KindSequence, ElemTypeID: int(elem)}, nil

	case 3: // Array
		length, err := d.ReadUint(4)
		if err != nil {
			return nil, err
		}
		elem, err := d.ReadCompactUint64()
		if err != nil {
			return nil, err
		}
		return &TypeDef{Kind: KindArray, ArrayLen: int(length), ElemTypeID: int(elem)}, nil

	case 4: // Tuple
		n, err := d.ReadCompactUint64()
		if err != nil {
			return nil, err
		}
		ids := make([]int, n)
		for i := range ids {
			id, err := d.ReadCompactUint64()
			if err != nil {
				return nil, err
			}
			ids[i] = int(id)
		}
		return &TypeDef{Kind: KindTuple, TupleTypeIDs: ids}, nil

	case 5: // Primitive
		p, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		return &TypeDef{Kind: KindPrimitive, Primitive: Primitive(p)}, nil

	case 6: // Compact
		elem, err := d.ReadCompactUint64()
		if err != nil {
			return nil, err
		}
		return &TypeDef{Kind: KindCompact, ElemTypeID: int(elem)}, nil

	case 7: // BitSequence
		store, err := d.ReadCompactUint64()
		if err != nil {
			return nil, err
		}
		order, err := d.ReadCompactUint64()
		if err != nil {
			return nil, err
		}
		return &TypeDef{Kind: KindBitSequence, BitStoreTypeID: int(store), BitOrderTypeID: int(order)}, nil

	default:
		return nil, apierr.New(apierr.Decode, fmt.Sprintf("unknown type_def discriminant %d", disc))
	}
}

func decodePallets(d *scale.Decoder) ([]Pallet, error) {
	n, err := d.ReadCompactUint64()
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "read pallet count", err)
	}

	pallets := make([]Pallet, n)
	for i := range pallets {
		p, err := decodePallet(d)
		if err != nil {
			return nil, err
		}
		pallets[i] = p
	}
	return pallets, nil
}
