package declaration

import (
	"strconv"
	"strings"
)

// ParseStatisticalDetails parses the SEALNET free-text statistical breakdown,
// a comma-separated list of "<qty> <UOM>" segments, e.g. "10 CTN, 5.5 BTL".
// The last whitespace-split token of each segment is the unit; whatever
// precedes it must parse as a number or the quantity defaults to 0. A segment
// with no leading number ("garbage") therefore becomes {UOM: "garbage", 0}.
func ParseStatisticalDetails(details string) []StatisticalUOM {
	var out []StatisticalUOM
	for _, segment := range strings.Split(details, ",") {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			continue
		}
		uom := fields[len(fields)-1]
		qty := 0.0
		if len(fields) > 1 {
			if parsed, err := strconv.ParseFloat(strings.Join(fields[:len(fields)-1], ""), 64); err == nil {
				qty = parsed
			}
		}
		out = append(out, StatisticalUOM{UOM: uom, Quantity: qty})
	}
	return out
}
