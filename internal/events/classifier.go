package events

// Classify partitions a block's decoded event records by phase
// (spec.md §4.6) and derives each ApplyExtrinsic bucket's dispatch
// outcome from the System.ExtrinsicSuccess/ExtrinsicFailed event it
// contains.
func Classify(records []Record) Classification {
	c := Classification{
		PerExtrinsic: make(map[uint32][]Record),
		Outcomes:     make(map[uint32]Outcome),
	}

	for _, r := range records {
		switch r.Phase.Kind {
		case PhaseInitialization:
			c.OnInitialize = append(c.OnInitialize, r)
		case PhaseFinalization:
			c.OnFinalize = append(c.OnFinalize, r)
		case PhaseApplyExtrinsic:
			idx := r.Phase.ExtrinsicIndex
			c.PerExtrinsic[idx] = append(c.PerExtrinsic[idx], r)
		}
	}

	for idx, bucket := range c.PerExtrinsic {
		c.Outcomes[idx] = deriveOutcome(bucket)
	}

	return c
}

// deriveOutcome scans one extrinsic's event bucket for
// System.ExtrinsicSuccess/ExtrinsicFailed and lifts its dispatch-info
// fields (weight, class, paysFee) into an Outcome. Neither event
// present yields the all-absent default.
func deriveOutcome(bucket []Record) Outcome {
	for _, r := range bucket {
		if r.PalletName != "System" {
			continue
		}
		switch r.EventName {
		case "ExtrinsicSuccess":
			// ExtrinsicSuccess(DispatchInfo) — one unnamed field.
			o := Outcome{Success: true}
			applyDispatchInfo(&o, r.Data["field0"])
			return o
		case "ExtrinsicFailed":
			// ExtrinsicFailed(DispatchError, DispatchInfo) — the info
			// is the second unnamed field.
			o := Outcome{Success: false}
			applyDispatchInfo(&o, r.Data["field1"])
			return o
		}
	}
	return Outcome{Success: false}
}

// applyDispatchInfo lifts DispatchInfo{weight, class, paysFee} fields
// out of the projector's rendered event data. The projector already
// reduced these to plain JSON-ready values, so this reads back the
// shape C4 is known to produce (a named-field composite) rather than
// re-decoding anything.
func applyDispatchInfo(o *Outcome, rendered any) {
	info, ok := rendered.(map[string]any)
	if !ok {
		return
	}

	if weight, ok := info["weight"].(map[string]any); ok {
		w := &Weight{}
		if refTime, ok := weight["refTime"].(uint64); ok {
			w.RefTime = refTime
		}
		if proofSize, ok := weight["proofSize"].(uint64); ok {
			p := proofSize
			w.ProofSize = &p
		}
		o.ActualWeight = w
	}

	if class, ok := info["class"].(string); ok {
		o.Class = &class
	}

	if paysFee, ok := info["paysFee"].(string); ok {
		b := paysFee == "Yes"
		o.PaysFee = &b
	}
}
