package block

import (
	"encoding/hex"

	"github.com/subscale/rest-gateway/internal/scale"
)

// DigestLog is one header digest item, reshaped into the stable
// tagged form spec.md §4.9 requires: preRuntime/consensus/seal carry
// both the 4-byte consensus engine id and the opaque payload as hex;
// other carries only the payload; runtimeEnvironmentUpdated carries
// neither.
type DigestLog struct {
	Kind     string  `json:"kind"`
	EngineID *string `json:"engineId,omitempty"`
	Data     *string `json:"data,omitempty"`
}

// Substrate's sp_runtime::DigestItem wire discriminants. The three
// deprecated pre-V0 variants (AuthoritiesChange=1, ChangesTrieRoot=2,
// SealV0=3) and ChangesTrieSignal=7 are never emitted by any runtime
// this gateway targets; a log carrying one decodes as "other" rather
// than failing the whole block.
const (
	digestOther                     byte = 0
	digestConsensus                 byte = 4
	digestSeal                      byte = 5
	digestPreRuntime                byte = 6
	digestRuntimeEnvironmentUpdated byte = 8
)

// DecodeDigestLogs reshapes a header's raw digest items (each the
// full SCALE encoding of one DigestItem, as returned by
// chain_getHeader) into their tagged JSON form. A single malformed
// item downgrades to a bare "other" entry with no data rather than
// failing the block — logs are supplementary, never load-bearing for
// extrinsic/event correctness.
func DecodeDigestLogs(raw [][]byte) []DigestLog {
	out := make([]DigestLog, 0, len(raw))
	for _, item := range raw {
		out = append(out, decodeDigestItem(item))
	}
	return out
}

func decodeDigestItem(item []byte) DigestLog {
	d := scale.NewDecoder(item)
	tag, err := d.ReadByte()
	if err != nil {
		return DigestLog{Kind: "other"}
	}

	switch tag {
	case digestPreRuntime:
		return decodeEngineIDPayload("preRuntime", d)
	case digestConsensus:
		return decodeEngineIDPayload("consensus", d)
	case digestSeal:
		return decodeEngineIDPayload("seal", d)
	case digestRuntimeEnvironmentUpdated:
		return DigestLog{Kind: "runtimeEnvironmentUpdated"}
	case digestOther:
		payload, err := d.ReadVecBytes()
		if err != nil {
			return DigestLog{Kind: "other"}
		}
		hexStr := "0x" + hex.EncodeToString(payload)
		return DigestLog{Kind: "other", Data: &hexStr}
	default:
		return DigestLog{Kind: "other"}
	}
}

func decodeEngineIDPayload(kind string, d *scale.Decoder) DigestLog {
	engineID, err := d.ReadBytes(4)
	if err != nil {
		return DigestLog{Kind: "other"}
	}
	payload, err := d.ReadVecBytes()
	if err != nil {
		return DigestLog{Kind: "other"}
	}
	engineHex := "0x" + hex.EncodeToString(engineID)
	dataHex := "0x" + hex.EncodeToString(payload)
	return DigestLog{Kind: kind, EngineID: &engineHex, Data: &dataHex}
}
