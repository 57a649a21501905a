package events

import (
	"strings"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/projector"
	"github.com/subscale/rest-gateway/internal/scale"
)

// Decode reads the raw System.Events storage value: Vec<EventRecord
// {phase, event, topics}>. event's wire shape is identical to a
// call's — a pallet_index byte followed by that pallet's own event
// enum (discriminant plus fields) — so it reuses
// resolver.DecodeValue against each pallet's EventTypeID exactly the
// way the extrinsic decoder reuses it for CallTypeID.
func Decode(raw []byte, md *metadata.Metadata, resolver *metadata.Resolver, proj *projector.Projector, opts projector.Options) ([]Record, error) {
	d := scale.NewDecoder(raw)

	n, err := d.ReadCompactUint64()
	if err != nil {
		return nil, apierr.Wrap(apierr.Decode, "read event record count", err)
	}

	records := make([]Record, 0, n)
	for i := uint64(0); i < n; i++ {
		rec, err := decodeRecord(d, md, resolver, proj, opts)
		if err != nil {
			return nil, apierr.Wrap(apierr.Decode, "decode event record", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecord(d *scale.Decoder, md *metadata.Metadata, resolver *metadata.Resolver, proj *projector.Projector, opts projector.Options) (Record, error) {
	phase, err := decodePhase(d)
	if err != nil {
		return Record{}, err
	}

	palletIndex, err := d.ReadByte()
	if err != nil {
		return Record{}, err
	}
	pallet, ok := md.PalletByIndex(palletIndex)
	if !ok {
		return Record{}, apierr.New(apierr.Decode, "unknown pallet index in event")
	}
	if pallet.EventTypeID < 0 {
		return Record{}, apierr.New(apierr.Decode, "pallet has no events")
	}

	eventOpts := opts
	eventOpts.EVMOverlay = eventOpts.EVMOverlay || isRevivePallet(pallet.Name)

	v, err := resolver.DecodeValue(d, pallet.EventTypeID)
	if err != nil {
		return Record{}, err
	}
	if v.Kind != scale.KindVariant {
		return Record{}, apierr.New(apierr.Decode, "pallet event type did not decode to a variant")
	}

	data := make(map[string]any, len(v.Fields))
	for i, f := range v.Fields {
		data[fieldKey(f.Name, i)] = proj.Project(f.Value, f.TypeID, eventOpts)
	}

	topics, err := decodeTopics(d)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Phase:      phase,
		PalletName: pallet.Name,
		EventName:  v.VariantName,
		Data:       data,
		Topics:     topics,
	}, nil
}

// decodePhase reads Phase{ApplyExtrinsic(u32) | Finalization |
// Initialization}, in frame_system's declared discriminant order.
func decodePhase(d *scale.Decoder) (Phase, error) {
	disc, err := d.ReadByte()
	if err != nil {
		return Phase{}, err
	}
	switch disc {
	case 0:
		idx, err := d.ReadUint(4)
		if err != nil {
			return Phase{}, err
		}
		return Phase{Kind: PhaseApplyExtrinsic, ExtrinsicIndex: uint32(idx)}, nil
	case 1:
		return Phase{Kind: PhaseFinalization}, nil
	case 2:
		return Phase{Kind: PhaseInitialization}, nil
	default:
		return Phase{}, apierr.New(apierr.Decode, "unknown Phase discriminant")
	}
}

func decodeTopics(d *scale.Decoder) ([]chain.Hash, error) {
	n, err := d.ReadCompactUint64()
	if err != nil {
		return nil, err
	}
	topics := make([]chain.Hash, n)
	for i := range topics {
		raw, err := d.ReadBytes(32)
		if err != nil {
			return nil, err
		}
		copy(topics[i][:], raw)
	}
	return topics, nil
}

func isRevivePallet(name string) bool {
	return strings.EqualFold(name, "revive")
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

// fieldKey names an event's data field: its declared name if it has
// one, otherwise its positional index ("field0", "field1", ...) —
// events with more than one unnamed tuple field (e.g.
// ExtrinsicFailed(DispatchError, DispatchInfo)) would otherwise
// collide on a single literal "field" key.
func fieldKey(name string, index int) string {
	if name != "" {
		return lowerCamel(name)
	}
	return "field" + itoa(uint64(index))
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
