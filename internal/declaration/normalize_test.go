package declaration

import (
	"errors"
	"testing"
)

func aldecPayload() map[string]any {
	return map[string]any{
		"invoiceNumber":            "INV-2031",
		"invoiceNumber_confidence": 0.97,
		"invoiceValue":             15400.5,
		"invoiceDate":              "2024-03-14",
		"incoterms":                "CIF",
		"currency":                 "MYR",
		"grossWeight":              820.0,
		"netWeight":                790.0,
		"packageCount":             12.0,
		"description":              "Machine parts",
		"consigneeName":            "Selatan Engineering Sdn Bhd",
		"consigneeAddress":         "Lot 12, Jalan Perusahaan, Shah Alam",
		"consigneeROBROC":          "198401012345",
		"consignorName":            "Nagoya Industrial Co",
		"consignorAddress":         "2-1 Meieki, Nagoya",
		"consignorROBROC":          "JP-556677",
		"items": []any{
			map[string]any{
				"countryOfOrigin":        "JP",
				"hsCode":                 "8483.40",
				"declaredQty":            10.0,
				"declaredQty_confidence": 0.93,
				"declaredUOM":            "CTN",
				"statisticalQty":         10.0,
				"statisticalUOM": []any{
					map[string]any{"UOM": "CTN", "quantity": 10.0},
				},
				"itemAmount":       5400.0,
				"itemDescription":  "Gearbox assemblies",
				"itemDescription2": "Model GX-4",
				"itemDescription3": "",
			},
		},
	}
}

func sealnetPayload() []any {
	return []any{
		map[string]any{
			"invoiceNumber": "SN-881",
			"currency":      "MYR",
			"vesselName":    "MV Harapan",
			"arrivalDate":   "2024-04-02",
			"berthNumber":   "W-7",
			"sealnetData": map[string]any{
				"manifestRef": "MF-4410",
				"items": []any{
					map[string]any{
						"productCode":        "P-100",
						"hsCode":             "1006.30",
						"countryOfOrigin":    "TH",
						"declaredQty":        10.0,
						"declaredUOM":        "CTN",
						"statisticalQty":     10.0,
						"statisticalDetails": "10 CTN, 5 BTL",
						"itemDescription":    "White rice",
						"internalRef":        "abc-1",
					},
					map[string]any{
						"productCode":     "P-101",
						"hsCode":          "1701.14",
						"declaredQty":     4.0,
						"declaredUOM":     "BAG",
						"statisticalQty":  4.0,
						"itemDescription": "Raw sugar",
						"statisticalEntries": []any{
							map[string]any{"UOM": "BAG", "quantity": 4.0},
						},
					},
				},
			},
		},
		map[string]any{
			"invoiceNumber": "SN-882",
			"sealnetData": map[string]any{
				"items": []any{
					map[string]any{
						"productCode":     "P-200",
						"hsCode":          "0901.21",
						"declaredQty":     2.0,
						"declaredUOM":     "PKG",
						"statisticalQty":  2.0,
						"itemDescription": "Roasted coffee",
					},
				},
			},
		},
	}
}

func TestNormalizeEmptyPayload(t *testing.T) {
	_, err := Normalize([]any{}, "")
	if err == nil {
		t.Fatal("expected error for empty payload")
	}
	var empty *EmptyPayloadError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyPayloadError, got %T: %v", err, err)
	}
}

func TestNormalizeLoneObject(t *testing.T) {
	data, err := Normalize(aldecPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if data.TemplateType != TemplateALDEC {
		t.Fatalf("template: got %s want ALDEC", data.TemplateType)
	}
	if len(data.JobCargo.Items) != 1 {
		t.Fatalf("items: got %d want 1", len(data.JobCargo.Items))
	}
	if data.GeneralInformation.InvoiceNumber != "INV-2031" {
		t.Fatalf("invoice number: got %q", data.GeneralInformation.InvoiceNumber)
	}
}

func TestNormalizeItemCountConservation(t *testing.T) {
	data, err := Normalize(sealnetPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if data.TemplateType != TemplateSEALNET {
		t.Fatalf("template: got %s want SEALNET", data.TemplateType)
	}
	if len(data.JobCargo.Items) != 3 {
		t.Fatalf("items: got %d want 3 (flattened across entries)", len(data.JobCargo.Items))
	}
	wantIDs := []string{"0-0", "0-1", "1-0"}
	for i, want := range wantIDs {
		if data.JobCargo.Items[i].ID != want {
			t.Fatalf("item %d id: got %q want %q", i, data.JobCargo.Items[i].ID, want)
		}
	}
}

func TestNormalizeTypoAlias(t *testing.T) {
	correct := aldecPayload()

	typo := aldecPayload()
	typo["invoceNumber"] = typo["invoiceNumber"]
	typo["invoceNumber_confidence"] = typo["invoiceNumber_confidence"]
	delete(typo, "invoiceNumber")
	delete(typo, "invoiceNumber_confidence")

	a, err := Normalize(correct, "")
	if err != nil {
		t.Fatalf("normalize correct: %v", err)
	}
	b, err := Normalize(typo, "")
	if err != nil {
		t.Fatalf("normalize typo: %v", err)
	}

	if a.GeneralInformation.InvoiceNumber != b.GeneralInformation.InvoiceNumber {
		t.Fatalf("invoice number differs: %q vs %q",
			a.GeneralInformation.InvoiceNumber, b.GeneralInformation.InvoiceNumber)
	}
	if b.GeneralInformation.InvoiceNumberConfidence == nil ||
		*b.GeneralInformation.InvoiceNumberConfidence != 0.97 {
		t.Fatalf("typo confidence lost: %v", b.GeneralInformation.InvoiceNumberConfidence)
	}
}

func TestNormalizeInvoiceNumberArray(t *testing.T) {
	payload := aldecPayload()
	payload["invoiceNumber"] = []any{"INV-1", "INV-2"}

	data, err := Normalize(payload, "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if data.GeneralInformation.InvoiceNumber != "INV-1, INV-2" {
		t.Fatalf("got %q want comma-joined", data.GeneralInformation.InvoiceNumber)
	}
}

func TestNormalizeConfidenceNotInvented(t *testing.T) {
	data, err := Normalize(aldecPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	g := data.GeneralInformation
	if g.InvoiceNumberConfidence == nil || *g.InvoiceNumberConfidence != 0.97 {
		t.Fatalf("present confidence lost: %v", g.InvoiceNumberConfidence)
	}
	if g.CurrencyConfidence != nil {
		t.Fatalf("absent confidence invented: %v", *g.CurrencyConfidence)
	}
}

func TestNormalizeStatisticalProjection(t *testing.T) {
	payload := aldecPayload()
	items := payload["items"].([]any)
	item := items[0].(map[string]any)
	item["statisticalQty"] = 10.0
	item["statisticalUOM"] = []any{
		map[string]any{"UOM": "CTN", "quantity": 5.0},
		map[string]any{"UOM": "BTL", "quantity": 10.0},
	}

	data, err := Normalize(payload, "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	got := data.JobCargo.Items[0]
	if got.StatisticalUOM != "BTL" {
		t.Fatalf("display uom: got %q want BTL (quantity match wins)", got.StatisticalUOM)
	}
	if len(got.StatisticalEntries) != 2 {
		t.Fatalf("full entry list not retained: %+v", got.StatisticalEntries)
	}
}

func TestNormalizeConflictNonFatal(t *testing.T) {
	payload := aldecPayload()
	items := payload["items"].([]any)
	item := items[0].(map[string]any)
	item["declaredQty"] = 10.0
	item["statisticalQty"] = 12.0
	item["statisticalUOM"] = []any{map[string]any{"UOM": "CTN", "quantity": 12.0}}

	data, err := Normalize(payload, "")
	if err != nil {
		t.Fatalf("normalize should not fail on conflict: %v", err)
	}
	got := data.JobCargo.Items[0]
	if got.DeclaredQty != 10 {
		t.Fatalf("declared qty: got %v want 10 (declared wins)", got.DeclaredQty)
	}
	if got.StatisticalQty != 12 {
		t.Fatalf("statistical qty not preserved: got %v want 12", got.StatisticalQty)
	}
}

func TestNormalizeSealnetDetailsParsing(t *testing.T) {
	data, err := Normalize(sealnetPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	first := data.JobCargo.Items[0]
	if first.ProductCode != "P-100" {
		t.Fatalf("product code: got %q", first.ProductCode)
	}
	if len(first.StatisticalEntries) != 2 {
		t.Fatalf("details not parsed into entries: %+v", first.StatisticalEntries)
	}
	if first.StatisticalEntries[1].UOM != "BTL" || first.StatisticalEntries[1].Quantity != 5 {
		t.Fatalf("parsed entry mismatch: %+v", first.StatisticalEntries[1])
	}

	second := data.JobCargo.Items[1]
	if len(second.StatisticalEntries) != 1 || second.StatisticalEntries[0].UOM != "BAG" {
		t.Fatalf("pre-parsed entries not carried: %+v", second.StatisticalEntries)
	}
}

func TestNormalizeFirstDocumentHeaderWins(t *testing.T) {
	data, err := Normalize(sealnetPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if data.GeneralInformation.InvoiceNumber != "SN-881" {
		t.Fatalf("header should come from first entry, got %q", data.GeneralInformation.InvoiceNumber)
	}
	if data.GeneralInformation.VesselName != "MV Harapan" {
		t.Fatalf("vessel: got %q", data.GeneralInformation.VesselName)
	}
}

func TestNormalizeTemplateHintOverridesDetection(t *testing.T) {
	payload := aldecPayload()
	data, err := Normalize(payload, TemplateSEALNET)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if data.TemplateType != TemplateSEALNET {
		t.Fatalf("hint ignored: got %s", data.TemplateType)
	}
}

func TestNormalizeFieldsNeverUndefined(t *testing.T) {
	data, err := Normalize(map[string]any{"items": []any{map[string]any{}}}, "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	item := data.JobCargo.Items[0]
	if item.ID != "0-0" {
		t.Fatalf("id: got %q", item.ID)
	}
	if item.CountryOfOrigin != "" || item.DeclaredQty != 0 || item.DeclaredUOM != "" {
		t.Fatalf("defaults not applied: %+v", item)
	}
	if item.CountryOfOriginConfidence != nil {
		t.Fatal("confidence invented for absent field")
	}
}
