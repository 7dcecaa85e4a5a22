package declaration

import (
	"log"
	"strings"
)

// QuantityInput collects the legacy representations of declared/statistical
// quantity and unit that a cargo-item-like record may carry: a generic data
// list, declared scalars, and the statistical shape (entry array, single
// entry, or bare string).
type QuantityInput struct {
	Data               any
	DeclaredUOM        string
	DeclaredQty        *float64
	DeclaredConfidence *float64
	StatisticalUOM     any
	StatisticalQty     *float64
}

// QuantityCanonical is the resolved quantity/unit value plus
// backward-compatible projections for old call sites, which all read the same
// canonical values.
type QuantityCanonical struct {
	UOM         string
	Qty         float64
	Confidence  *float64
	DataEntries []StatisticalUOM

	DeclaredUOM    string
	DeclaredQty    float64
	StatisticalUOM string
	StatisticalQty float64
}

// CanonicalizeQuantity resolves the legacy quantity/UOM representations into
// one canonical value. It never fails; malformed input degrades to ""/0/nil
// defaults. The only side effect is a log line when the declared and
// statistical values disagree — the declared value wins, but both survive in
// the serialized record.
func CanonicalizeQuantity(in QuantityInput) QuantityCanonical {
	entries := statisticalEntryList(in.Data, nil)

	statUOM, statQty, statFound := resolveStatistical(in.StatisticalUOM, in.StatisticalQty, in.DeclaredUOM)

	declaredFound := in.DeclaredUOM != "" || in.DeclaredQty != nil
	declaredQty := 0.0
	if in.DeclaredQty != nil {
		declaredQty = *in.DeclaredQty
	}

	var uom string
	var qty float64
	var conf *float64
	switch {
	case len(entries) > 0:
		uom = entries[0].UOM
		qty = entries[0].Quantity
		conf = entries[0].Confidence
	case declaredFound:
		uom = in.DeclaredUOM
		qty = declaredQty
		conf = in.DeclaredConfidence
	case statFound:
		uom = statUOM
		qty = statQty
	}

	if declaredFound && statFound {
		uomConflict := statUOM != "" && in.DeclaredUOM != "" && !strings.EqualFold(in.DeclaredUOM, statUOM)
		qtyConflict := in.DeclaredQty != nil && in.StatisticalQty != nil && declaredQty != statQty
		if uomConflict || qtyConflict {
			log.Printf("Warning: declared (%s %v) and statistical (%s %v) quantities disagree, declared wins",
				in.DeclaredUOM, declaredQty, statUOM, statQty)
		}
	}

	if len(entries) == 0 {
		if uom != "" || qty != 0 || conf != nil {
			entries = []StatisticalUOM{{UOM: uom, Quantity: qty, Confidence: conf}}
		}
	} else {
		if entries[0].UOM == "" {
			entries[0].UOM = uom
		}
		if entries[0].Quantity == 0 {
			entries[0].Quantity = qty
		}
		if entries[0].Confidence == nil {
			entries[0].Confidence = conf
		}
	}

	return QuantityCanonical{
		UOM:            uom,
		Qty:            qty,
		Confidence:     conf,
		DataEntries:    entries,
		DeclaredUOM:    uom,
		DeclaredQty:    qty,
		StatisticalUOM: uom,
		StatisticalQty: qty,
	}
}

// WithCanonicalFromUIValues rehydrates the canonical shape when the UI edits
// the unit/quantity directly rather than the underlying data list. The new
// trio seeds or overwrites the first data entry; additional entries are
// preserved; the result is re-canonicalized.
func WithCanonicalFromUIValues(cur QuantityCanonical, uom string, qty float64, confidence *float64) QuantityCanonical {
	entries := seedFirstEntry(cur.DataEntries, uom, qty, confidence)
	return CanonicalizeQuantity(QuantityInput{Data: entries})
}

// seedFirstEntry overwrites the head of an entry list with the given trio,
// keeping the tail intact.
func seedFirstEntry(entries []StatisticalUOM, uom string, qty float64, confidence *float64) []StatisticalUOM {
	if len(entries) == 0 {
		return []StatisticalUOM{{UOM: uom, Quantity: qty, Confidence: confidence}}
	}
	out := make([]StatisticalUOM, len(entries))
	copy(out, entries)
	out[0] = StatisticalUOM{UOM: uom, Quantity: qty, Confidence: confidence}
	return out
}

// resolveStatistical collapses the legacy statistical shape into one
// unit/quantity pair. Arrays prefer the entry matching the declared unit
// (case-insensitive), then the first entry; a bare string is treated as the
// unit with the quantity taken from the scalar field.
func resolveStatistical(v any, scalarQty *float64, preferredUOM string) (string, float64, bool) {
	switch val := v.(type) {
	case nil:
		return "", 0, false
	case string:
		if val == "" {
			return "", 0, false
		}
		qty := 0.0
		if scalarQty != nil {
			qty = *scalarQty
		}
		return val, qty, true
	default:
		entries := statisticalEntryList(v, scalarQty)
		if len(entries) == 0 {
			return "", 0, false
		}
		if preferredUOM != "" {
			for _, e := range entries {
				if strings.EqualFold(e.UOM, preferredUOM) {
					return e.UOM, e.Quantity, true
				}
			}
		}
		return entries[0].UOM, entries[0].Quantity, true
	}
}

// DisplayStatisticalUOM projects a multi-entry statistical list down to the
// single unit shown in the table: the entry whose quantity equals the item's
// statistical quantity wins, then the first entry, then the declared unit as
// a last resort. The projection is lossy on purpose; callers keep the full
// list alongside it.
func DisplayStatisticalUOM(entries []StatisticalUOM, statisticalQty float64, declaredUOM string) string {
	for _, e := range entries {
		if e.Quantity == statisticalQty && e.UOM != "" {
			return e.UOM
		}
	}
	if len(entries) > 0 && entries[0].UOM != "" {
		return entries[0].UOM
	}
	return declaredUOM
}
