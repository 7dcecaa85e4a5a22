package declaration

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Helpers for reading the backend's extraction payloads, which arrive as
// decoded JSON objects. Field presence, aliasing and loose typing (numbers as
// strings, scalars as one-element arrays) are all handled here so the
// normalizer and serializer stay readable.

// entryList coerces a payload into a list of entry objects. A lone object is
// treated as a one-element array. Returns nil when the value is not
// array-like at all.
func entryList(raw any) []map[string]any {
	switch v := raw.(type) {
	case nil:
		return []map[string]any{}
	case map[string]any:
		return []map[string]any{v}
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, el := range v {
			if m, ok := el.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// toFloat converts loosely typed numeric values. NaN and unparseable input
// degrade to 0 rather than propagating.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case float32:
		return toFloat(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return toFloat(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return toFloat(f)
	default:
		return 0
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// confidenceOf reads the sibling "<key>_confidence" score. Nil means the
// model attached no score; confidences are never invented.
func confidenceOf(entry map[string]any, key string) *float64 {
	v, ok := entry[key+"_confidence"]
	if !ok {
		return nil
	}
	f := toFloat(v)
	return &f
}

// stringField returns the first present key's string value and its sibling
// confidence. Keys later in the list act as legacy aliases.
func stringField(entry map[string]any, keys ...string) (string, *float64) {
	for _, key := range keys {
		if v, ok := entry[key]; ok && v != nil {
			return toString(v), confidenceOf(entry, key)
		}
	}
	return "", nil
}

// numberField mirrors stringField for numeric values.
func numberField(entry map[string]any, keys ...string) (float64, *float64) {
	for _, key := range keys {
		if v, ok := entry[key]; ok && v != nil {
			return toFloat(v), confidenceOf(entry, key)
		}
	}
	return 0, nil
}

// invoiceNumberField handles the invoice number's two quirks: the value may
// be a single string or an array of strings (consolidated invoices, joined
// with commas for display), and the key may appear under the legacy
// "invoceNumber" typo.
func invoiceNumberField(entry map[string]any) (string, *float64) {
	for _, key := range []string{"invoiceNumber", "invoceNumber"} {
		v, ok := entry[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case []any:
			parts := make([]string, 0, len(val))
			for _, el := range val {
				if s := toString(el); s != "" {
					parts = append(parts, s)
				}
			}
			return strings.Join(parts, ", "), confidenceOf(entry, key)
		default:
			return toString(val), confidenceOf(entry, key)
		}
	}
	return "", nil
}

// rawItems locates an entry's item list. SEALNET payloads nest items under
// sealnetData; ALDEC keeps them at the top level. The second return reports
// the nesting so the serializer can patch items where it found them.
func rawItems(entry map[string]any) ([]map[string]any, bool) {
	if sealnet, ok := entry["sealnetData"].(map[string]any); ok {
		if items, ok := sealnet["items"]; ok {
			return entryList(items), true
		}
	}
	if items, ok := entry["items"]; ok {
		return entryList(items), false
	}
	return nil, false
}

// statisticalEntryList normalizes the legacy statisticalUOM shapes (array of
// entries, single entry object, or bare string) into a typed list. Entries
// missing both UOM and quantity are dropped.
func statisticalEntryList(v any, fallbackQty *float64) []StatisticalUOM {
	var out []StatisticalUOM
	appendEntry := func(m map[string]any) {
		_, hasUOM := m["UOM"]
		if !hasUOM {
			_, hasUOM = m["uom"]
		}
		_, hasQty := m["quantity"]
		if !hasQty {
			_, hasQty = m["qty"]
		}
		if !hasUOM && !hasQty {
			return
		}
		uom, _ := stringField(m, "UOM", "uom")
		qty, _ := numberField(m, "quantity", "qty")
		out = append(out, StatisticalUOM{UOM: uom, Quantity: qty, Confidence: confidenceOf(m, "quantity")})
	}

	switch val := v.(type) {
	case nil:
	case []any:
		for _, el := range val {
			if m, ok := el.(map[string]any); ok {
				appendEntry(m)
			}
		}
	case []map[string]any:
		for _, m := range val {
			appendEntry(m)
		}
	case []StatisticalUOM:
		out = append(out, val...)
	case StatisticalUOM:
		out = append(out, val)
	case map[string]any:
		appendEntry(val)
	case string:
		if val != "" {
			qty := 0.0
			if fallbackQty != nil {
				qty = *fallbackQty
			}
			out = append(out, StatisticalUOM{UOM: val, Quantity: qty})
		}
	}
	return out
}

// deepCopyMap clones a decoded JSON object, including nested maps and
// slices. Used by the SEALNET serializer so patched copies never alias the
// stored payload.
func deepCopyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		dst := make([]any, len(val))
		for i, el := range val {
			dst[i] = deepCopyValue(el)
		}
		return dst
	default:
		return val
	}
}
