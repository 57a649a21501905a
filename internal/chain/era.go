package chain

import (
	"encoding/json"
	"fmt"
)

// Era is a signed extrinsic's mortality range: either Immortal (valid
// forever, encoded as the single byte 0x00) or Mortal(period, phase)
// with period a power of two and phase < period (spec.md §3).
type Era struct {
	Immortal bool
	Period   uint64
	Phase    uint64
}

// ImmortalEra is the canonical immortal value, used for every unsigned
// extrinsic and any signed extrinsic whose era extension decodes to
// the single 0x00 byte.
var ImmortalEra = Era{Immortal: true}

// NewMortalEra reconstructs a Mortal era from its two encoded bytes
// using the bit arithmetic spec.md §4.5 step 4 specifies:
//
//	period = 1 << ((first & 0x0f) + 1)
//	phase  = (second << 4) | (first >> 4)
//
// If the resulting phase is not less than period the encoding is
// invalid; per spec.md §9 Open Questions, invalid eras are downgraded
// to Immortal rather than emitted with a violated invariant.
func NewMortalEra(first, second byte) Era {
	period := uint64(1) << ((uint64(first) & 0x0f) + 1)
	phase := (uint64(second) << 4) | (uint64(first) >> 4)
	if phase >= period {
		return ImmortalEra
	}
	return Era{Period: period, Phase: phase}
}

// Validate enforces the invariant period = 2^k (1 <= k <= 16) and
// phase < period for a Mortal era. Immortal eras always validate.
func (e Era) Validate() error {
	if e.Immortal {
		return nil
	}
	if e.Period < 2 || e.Period > 1<<16 || e.Period&(e.Period-1) != 0 {
		return fmt.Errorf("era period %d is not a power of two between 2 and 65536", e.Period)
	}
	if e.Phase >= e.Period {
		return fmt.Errorf("era phase %d is not less than period %d", e.Phase, e.Period)
	}
	return nil
}

// String renders a human-readable form for logging.
func (e Era) String() string {
	if e.Immortal {
		return "Immortal"
	}
	return fmt.Sprintf("Mortal(period=%d,phase=%d)", e.Period, e.Phase)
}

// MarshalJSON renders Immortal as the bare string "Immortal" and
// Mortal as a {"period","phase"} object — the canonical response
// shape for an extrinsic's era field (spec.md §3).
func (e Era) MarshalJSON() ([]byte, error) {
	if e.Immortal {
		return json.Marshal("Immortal")
	}
	return json.Marshal(struct {
		Period uint64 `json:"period"`
		Phase  uint64 `json:"phase"`
	}{e.Period, e.Phase})
}
