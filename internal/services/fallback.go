package services

import (
	"regexp"
	"strconv"
	"strings"
)

// FallbackParser turns raw OCR text from a scanned declaration into an
// ALDEC-shaped payload. It only recognizes clearly labelled header fields and
// HS-coded item lines; anything it cannot read stays absent so the normalizer
// fills defaults. No confidence scores are attached: OCR text carries none.
type FallbackParser struct {
	headerPatterns map[string]*regexp.Regexp
	itemPattern    *regexp.Regexp
	weightPattern  *regexp.Regexp
}

// NewFallbackParser creates a parser for locally OCR'd documents
func NewFallbackParser() *FallbackParser {
	return &FallbackParser{
		headerPatterns: map[string]*regexp.Regexp{
			"invoiceNumber":  regexp.MustCompile(`(?i)invoice\s*(?:no|number|#)\.?\s*:?\s*([A-Z0-9][A-Z0-9/\-]+)`),
			"invoiceDate":    regexp.MustCompile(`(?i)invoice\s*date\s*:?\s*(\d{4}-\d{2}-\d{2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
			"currency":       regexp.MustCompile(`(?i)currency\s*:?\s*([A-Z]{3})\b`),
			"incoterms":      regexp.MustCompile(`(?i)\b(CIF|FOB|EXW|DDP|DAP|CFR|FCA)\b`),
			"consigneeName":  regexp.MustCompile(`(?i)consignee\s*:?\s*(.+)$`),
			"consignorName":  regexp.MustCompile(`(?i)(?:consignor|shipper|exporter)\s*:?\s*(.+)$`),
		},
		// HS code, description, quantity, unit: "8483.40 Gearbox assemblies 10 CTN"
		itemPattern:   regexp.MustCompile(`^(\d{4}\.\d{2}(?:\.\d{2})?)\s+(.+?)\s+(\d+(?:\.\d+)?)\s+([A-Z]{2,4})\s*$`),
		weightPattern: regexp.MustCompile(`(?i)(gross|net)\s*weight\s*:?\s*(\d+(?:\.\d+)?)`),
	}
}

// Parse builds an ALDEC-shaped payload from OCR text. The result always has
// an items list, possibly empty.
func (p *FallbackParser) Parse(ocrText string) map[string]any {
	payload := map[string]any{
		"templateType": "ALDEC",
	}
	items := []any{}

	for _, line := range strings.Split(ocrText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for field, pattern := range p.headerPatterns {
			if _, seen := payload[field]; seen {
				continue
			}
			if m := pattern.FindStringSubmatch(line); m != nil {
				payload[field] = strings.TrimSpace(m[1])
			}
		}

		if m := p.weightPattern.FindStringSubmatch(line); m != nil {
			value, err := strconv.ParseFloat(m[2], 64)
			if err == nil {
				key := "grossWeight"
				if strings.EqualFold(m[1], "net") {
					key = "netWeight"
				}
				if _, seen := payload[key]; !seen {
					payload[key] = value
				}
			}
		}

		if m := p.itemPattern.FindStringSubmatch(line); m != nil {
			qty, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				qty = 0
			}
			items = append(items, map[string]any{
				"hsCode":          m[1],
				"itemDescription": strings.TrimSpace(m[2]),
				"declaredQty":     qty,
				"declaredUOM":     m[4],
				"statisticalQty":  qty,
				"statisticalUOM": []any{
					map[string]any{"UOM": m[4], "quantity": qty},
				},
			})
		}
	}

	payload["items"] = items
	return payload
}
