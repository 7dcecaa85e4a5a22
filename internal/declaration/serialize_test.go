package declaration

import "testing"

func TestSerializeALDECRoundTrip(t *testing.T) {
	original := aldecPayload()
	data, err := Normalize(original, "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	out, err := Serialize(data)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("aldec payload must be a single-element array, got %d", len(out))
	}

	entry := out[0]
	wantStrings := map[string]string{
		"invoiceNumber":    "INV-2031",
		"invoiceDate":      "2024-03-14",
		"incoterms":        "CIF",
		"currency":         "MYR",
		"description":      "Machine parts",
		"consigneeName":    "Selatan Engineering Sdn Bhd",
		"consigneeROBROC":  "198401012345",
		"consignorName":    "Nagoya Industrial Co",
		"consignorAddress": "2-1 Meieki, Nagoya",
	}
	for key, want := range wantStrings {
		if got := entry[key]; got != want {
			t.Fatalf("%s: got %v want %q", key, got, want)
		}
	}
	wantNumbers := map[string]float64{
		"invoiceValue": 15400.5,
		"grossWeight":  820,
		"netWeight":    790,
		"packageCount": 12,
	}
	for key, want := range wantNumbers {
		if got := entry[key]; got != want {
			t.Fatalf("%s: got %v want %v", key, got, want)
		}
	}
	if got := entry["invoiceNumber_confidence"]; got != 0.97 {
		t.Fatalf("confidence not carried: %v", got)
	}

	items, ok := entry["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items: %v", entry["items"])
	}
	item := items[0].(map[string]any)
	if item["hsCode"] != "8483.40" || item["declaredQty"] != 10.0 || item["declaredUOM"] != "CTN" {
		t.Fatalf("item fields mismatch: %+v", item)
	}

	statUOM, ok := item["statisticalUOM"].([]any)
	if !ok || len(statUOM) != 1 {
		t.Fatalf("statisticalUOM must be a one-entry array: %v", item["statisticalUOM"])
	}
	stat := statUOM[0].(map[string]any)
	if stat["UOM"] != "CTN" || stat["quantity"] != 10.0 {
		t.Fatalf("rebuilt statistical entry mismatch: %+v", stat)
	}
}

func TestSerializeALDECOmitsPackFieldsWhenAbsent(t *testing.T) {
	data, err := Normalize(aldecPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	out, _ := Serialize(data)
	item := out[0]["items"].([]any)[0].(map[string]any)
	if _, ok := item["packQty"]; ok {
		t.Fatal("packQty written for a non-K9 item")
	}
	if _, ok := item["packUOM"]; ok {
		t.Fatal("packUOM written for a non-K9 item")
	}

	qty := 3.0
	uom := "PLT"
	data.JobCargo.Items[0].PackQty = &qty
	data.JobCargo.Items[0].PackUOM = &uom
	out, _ = Serialize(data)
	item = out[0]["items"].([]any)[0].(map[string]any)
	if item["packQty"] != 3.0 || item["packUOM"] != "PLT" {
		t.Fatalf("pack fields missing when set: %+v", item)
	}
}

func TestSerializeSealnetPreservesUndisplayedFields(t *testing.T) {
	data, err := Normalize(sealnetPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	number := "SN-881-EDited"
	data.UpdateGeneral(GeneralPatch{InvoiceNumber: &number})
	hs := "1006.40"
	if err := data.UpdateItem(0, ItemPatch{HSCode: &hs}); err != nil {
		t.Fatalf("update item: %v", err)
	}

	out, err := Serialize(data)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("entry count: got %d want 2", len(out))
	}

	first := out[0]
	if first["berthNumber"] != "W-7" {
		t.Fatalf("undisplayed header field lost: %v", first["berthNumber"])
	}
	sealnet := first["sealnetData"].(map[string]any)
	if sealnet["manifestRef"] != "MF-4410" {
		t.Fatalf("nested undisplayed field lost: %v", sealnet["manifestRef"])
	}

	items := sealnet["items"].([]any)
	item := items[0].(map[string]any)
	if item["internalRef"] != "abc-1" {
		t.Fatalf("undisplayed item field lost: %v", item["internalRef"])
	}
	if item["hsCode"] != "1006.40" {
		t.Fatalf("edit not applied: %v", item["hsCode"])
	}
	if first["invoiceNumber"] != number || first["invoceNumber"] != number {
		t.Fatalf("invoice number not dual-written: %v / %v", first["invoiceNumber"], first["invoceNumber"])
	}
	if first["consigneeROBROC"] == nil || first["consigneeRobRoc"] == nil {
		t.Fatal("ROB/ROC not dual-written")
	}
}

func TestSerializeSealnetDoesNotMutateSource(t *testing.T) {
	data, err := Normalize(sealnetPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	hs := "9999.99"
	if err := data.UpdateItem(0, ItemPatch{HSCode: &hs}); err != nil {
		t.Fatalf("update item: %v", err)
	}
	if _, err := Serialize(data); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	sealnet := data.RawEntries[0]["sealnetData"].(map[string]any)
	rawItem := sealnet["items"].([]any)[0].(map[string]any)
	if rawItem["hsCode"] != "1006.30" {
		t.Fatalf("serialize mutated the stored payload: %v", rawItem["hsCode"])
	}
}

func TestSerializeSealnetStatisticalEntryPriority(t *testing.T) {
	data, err := Normalize(sealnetPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	// Edited entry list takes priority over everything else.
	data.JobCargo.Items[0].StatisticalEntries = []StatisticalUOM{{UOM: "PLT", Quantity: 2}}
	out, err := Serialize(data)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	sealnet := out[0]["sealnetData"].(map[string]any)
	item := sealnet["items"].([]any)[0].(map[string]any)
	entries := item["statisticalEntries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("entries: %v", entries)
	}
	first := entries[0].(map[string]any)
	if first["UOM"] != "PLT" || first["quantity"] != 2.0 {
		t.Fatalf("edited entries ignored: %+v", first)
	}
}

func TestSerializeSealnetFallthrough(t *testing.T) {
	data, err := Normalize(sealnetPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	// Simulate a client-side filter that dropped everything except one item
	// and re-indexed it so neither source indexes nor id match raw slot 0-1.
	kept := data.JobCargo.Items[0]
	data.JobCargo.Items = []JobCargoItem{kept}

	out, err := Serialize(data)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	// Raw slot 0-1 had no UI counterpart beyond the positional tier, and
	// position 1 is out of range for a one-item list: the original passes
	// through unedited.
	sealnet := out[0]["sealnetData"].(map[string]any)
	second := sealnet["items"].([]any)[1].(map[string]any)
	if second["hsCode"] != "1701.14" {
		t.Fatalf("unmatched raw item was modified: %v", second["hsCode"])
	}
}

func TestMatcherTiers(t *testing.T) {
	items := []JobCargoItem{
		{ID: "0-1", SourceDataIndex: 0, SourceItemIndex: 1, HSCode: "A"},
		{ID: "9-9", SourceDataIndex: -1, SourceItemIndex: -1, HSCode: "B"},
	}

	t.Run("source indexes", func(t *testing.T) {
		got := matchBySourceIndexes(rawItemRef{DataIndex: 0, ItemIndex: 1}, items)
		if got == nil || got.HSCode != "A" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("id pattern", func(t *testing.T) {
		// Source indexes deliberately wrong; only the id matches.
		scrambled := []JobCargoItem{{ID: "0-1", SourceDataIndex: 5, SourceItemIndex: 5, HSCode: "C"}}
		if got := matchBySourceIndexes(rawItemRef{DataIndex: 0, ItemIndex: 1}, scrambled); got != nil {
			t.Fatalf("source matcher should miss, got %+v", got)
		}
		got := matchByIDPattern(rawItemRef{DataIndex: 0, ItemIndex: 1}, scrambled)
		if got == nil || got.HSCode != "C" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("positional last resort", func(t *testing.T) {
		got := matchByPosition(rawItemRef{Position: 1}, items)
		if got == nil || got.HSCode != "B" {
			t.Fatalf("got %+v", got)
		}
		if got := matchByPosition(rawItemRef{Position: 2}, items); got != nil {
			t.Fatalf("out-of-range position must miss, got %+v", got)
		}
	})

	t.Run("chain order", func(t *testing.T) {
		got := matchItem(rawItemRef{DataIndex: 0, ItemIndex: 1, Position: 1}, items)
		if got == nil || got.HSCode != "A" {
			t.Fatalf("index-pair tier should win, got %+v", got)
		}
	})
}

func TestSerializeNilData(t *testing.T) {
	if _, err := Serialize(nil); err == nil {
		t.Fatal("expected error for nil canonical data")
	}
}
