package metadata

import (
	"fmt"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/scale"
)

// DecodeValue decodes one instance of the type at typeID from d into a
// dynamic scale.Value tree, the shared input to the projector (C4) and
// the extrinsic call decoder (C5). Each produced scale.Field carries
// its own type id so callers can re-resolve account/enum shape without
// re-walking the registry from the root.
func (r *Resolver) DecodeValue(d *scale.Decoder, typeID int) (*scale.Value, error) {
	td, ok := r.typeDef(typeID)
	if !ok {
		return nil, apierr.New(apierr.Decode, fmt.Sprintf("unknown type id %d", typeID))
	}

	switch td.Kind {
	case KindPrimitive:
		return r.decodePrimitive(d, td.Primitive)

	case KindCompact:
		big, err := d.ReadCompact()
		if err != nil {
			return nil, err
		}
		if big.IsUint64() {
			return &scale.Value{Kind: scale.KindUint, Uint: big.Uint64()}, nil
		}
		return &scale.Value{Kind: scale.KindBigInt, Big: big}, nil

	case KindComposite:
		fields, err := r.decodeFieldValues(d, td.Fields)
		if err != nil {
			return nil, err
		}
		return &scale.Value{Kind: scale.KindComposite, Fields: fields}, nil

	case KindVariant:
		index, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		variant, ok := r.VariantByIndex(typeID, index)
		if !ok {
			return nil, apierr.New(apierr.Decode, fmt.Sprintf("unknown variant index %d for type %d", index, typeID))
		}
		fields, err := r.decodeFieldValues(d, variant.Fields)
		if err != nil {
			return nil, err
		}
		return &scale.Value{
			Kind:         scale.KindVariant,
			VariantName:  variant.Name,
			VariantIndex: index,
			HasData:      len(fields) > 0,
			Fields:       fields,
		}, nil

	case KindSequence:
		n, err := d.ReadCompactUint64()
		if err != nil {
			return nil, err
		}
		fields := make([]scale.Field, n)
		for i := range fields {
			elem, err := r.DecodeValue(d, td.ElemTypeID)
			if err != nil {
				return nil, err
			}
			fields[i] = scale.Field{TypeID: td.ElemTypeID, Value: elem}
		}
		return collapseByteSequence(fields, td.ElemTypeID, r)

	case KindArray:
		fields := make([]scale.Field, td.ArrayLen)
		for i := range fields {
			elem, err := r.DecodeValue(d, td.ElemTypeID)
			if err != nil {
				return nil, err
			}
			fields[i] = scale.Field{TypeID: td.ElemTypeID, Value: elem}
		}
		return collapseByteSequence(fields, td.ElemTypeID, r)

	case KindTuple:
		fields := make([]scale.Field, len(td.TupleTypeIDs))
		for i, id := range td.TupleTypeIDs {
			elem, err := r.DecodeValue(d, id)
			if err != nil {
				return nil, err
			}
			fields[i] = scale.Field{TypeID: id, Value: elem}
		}
		return &scale.Value{Kind: scale.KindSequence, Fields: fields}, nil

	case KindBitSequence:
		bits, err := d.ReadBitSequence()
		if err != nil {
			return nil, err
		}
		return &scale.Value{Kind: scale.KindBitSequence, Bits: bits}, nil

	default:
		return nil, apierr.New(apierr.Decode, fmt.Sprintf("unsupported type kind for type id %d", typeID))
	}
}

func (r *Resolver) decodeFieldValues(d *scale.Decoder, fields []Field) ([]scale.Field, error) {
	out := make([]scale.Field, len(fields))
	for i, f := range fields {
		v, err := r.DecodeValue(d, f.TypeID)
		if err != nil {
			return nil, err
		}
		out[i] = scale.Field{Name: f.Name, TypeID: f.TypeID, Value: v}
	}
	return out, nil
}

func (r *Resolver) decodePrimitive(d *scale.Decoder, prim Primitive) (*scale.Value, error) {
	switch prim {
	case PrimBool:
		b, err := d.ReadBool()
		if err != nil {
			return nil, err
		}
		return &scale.Value{Kind: scale.KindBool, Bool: b}, nil

	case PrimChar:
		v, err := d.ReadUint(4)
		if err != nil {
			return nil, err
		}
		return &scale.Value{Kind: scale.KindString, Str: string(rune(v))}, nil

	case PrimStr:
		s, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return &scale.Value{Kind: scale.KindString, Str: s}, nil

	case PrimU8:
		v, err := d.ReadUint(1)
		return uintValue(v, err)
	case PrimU16:
		v, err := d.ReadUint(2)
		return uintValue(v, err)
	case PrimU32:
		v, err := d.ReadUint(4)
		return uintValue(v, err)
	case PrimU64:
		v, err := d.ReadUint(8)
		return uintValue(v, err)
	case PrimI8:
		v, err := d.ReadUint(1)
		return uintValue(v, err)
	case PrimI16:
		v, err := d.ReadUint(2)
		return uintValue(v, err)
	case PrimI32:
		v, err := d.ReadUint(4)
		return uintValue(v, err)
	case PrimI64:
		v, err := d.ReadUint(8)
		return uintValue(v, err)

	case PrimU128, PrimI128:
		big, err := d.ReadUintBig(16)
		if err != nil {
			return nil, err
		}
		return &scale.Value{Kind: scale.KindBigInt, Big: big}, nil

	case PrimU256, PrimI256:
		big, err := d.ReadUintBig(32)
		if err != nil {
			return nil, err
		}
		return &scale.Value{Kind: scale.KindBigInt, Big: big}, nil

	default:
		return nil, apierr.New(apierr.Decode, "unsupported primitive kind")
	}
}

func uintValue(v uint64, err error) (*scale.Value, error) {
	if err != nil {
		return nil, err
	}
	return &scale.Value{Kind: scale.KindUint, Uint: v}, nil
}

// collapseByteSequence re-tags a decoded [u8; N] or Vec<u8> as a
// KindBytes value (spec.md §4.4 needs raw byte access for the
// hex/account-detection rules), while leaving non-byte sequences as
// KindSequence element lists.
func collapseByteSequence(fields []scale.Field, elemTypeID int, r *Resolver) (*scale.Value, error) {
	if !r.IsPrimitiveWidth(elemTypeID, 8) {
		return &scale.Value{Kind: scale.KindSequence, Fields: fields}, nil
	}
	out := make([]byte, len(fields))
	for i, f := range fields {
		if f.Value == nil || f.Value.Kind != scale.KindUint {
			return &scale.Value{Kind: scale.KindSequence, Fields: fields}, nil
		}
		out[i] = byte(f.Value.Uint)
	}
	return &scale.Value{Kind: scale.KindBytes, Bytes: out}, nil
}
