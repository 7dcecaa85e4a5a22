package declaration

import (
	"reflect"
	"testing"
)

func TestUpdateItemIndexBounds(t *testing.T) {
	data, err := Normalize(aldecPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	before := data.JobCargo.Items[0]
	hs := "0000.00"

	cases := []struct {
		name  string
		index int
	}{
		{name: "one past end", index: len(data.JobCargo.Items)},
		{name: "negative", index: -1},
		{name: "far out", index: 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := data.UpdateItem(tc.index, ItemPatch{HSCode: &hs})
			if err == nil {
				t.Fatal("expected index error")
			}
			if _, ok := err.(*IndexOutOfRangeError); !ok {
				t.Fatalf("expected IndexOutOfRangeError, got %T", err)
			}
			if !reflect.DeepEqual(data.JobCargo.Items[0], before) {
				if data.JobCargo.Items[0].HSCode != before.HSCode {
					t.Fatal("rejected edit mutated state")
				}
			}
		})
	}
}

func TestUpdateItemAppliesPatch(t *testing.T) {
	data, err := Normalize(aldecPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	qty := 25.0
	uom := "PLT"
	if err := data.UpdateItem(0, ItemPatch{StatisticalQty: &qty, StatisticalUOM: &uom}); err != nil {
		t.Fatalf("update: %v", err)
	}

	item := data.JobCargo.Items[0]
	if item.StatisticalQty != 25 || item.StatisticalUOM != "PLT" {
		t.Fatalf("patch not applied: %+v", item)
	}
	// Direct unit edits reseed the retained entry list so serialization
	// reflects what the table shows.
	if len(item.StatisticalEntries) == 0 || item.StatisticalEntries[0].UOM != "PLT" {
		t.Fatalf("entry list not reseeded: %+v", item.StatisticalEntries)
	}
}

func TestUpdateItemQtyEditDropsConfidence(t *testing.T) {
	conf := 0.91
	data := &CanonicalData{
		TemplateType: TemplateALDEC,
		JobCargo: JobCargo{Items: []JobCargoItem{{
			StatisticalUOM:           "CTN",
			StatisticalQty:           10,
			StatisticalQtyConfidence: &conf,
			StatisticalEntries: []StatisticalUOM{
				{UOM: "CTN", Quantity: 10, Confidence: &conf},
			},
		}}},
	}

	qty := 42.0
	if err := data.UpdateItem(0, ItemPatch{StatisticalQty: &qty}); err != nil {
		t.Fatalf("update: %v", err)
	}

	item := data.JobCargo.Items[0]
	// A user-supplied value carries no model confidence.
	if item.StatisticalQtyConfidence != nil {
		t.Fatalf("item confidence retained: %v", *item.StatisticalQtyConfidence)
	}
	if len(item.StatisticalEntries) == 0 {
		t.Fatal("entry list empty after reseed")
	}
	if item.StatisticalEntries[0].Confidence != nil {
		t.Fatalf("entry confidence retained: %v", *item.StatisticalEntries[0].Confidence)
	}
	if item.StatisticalEntries[0].Quantity != 42 {
		t.Fatalf("entry quantity: %v", item.StatisticalEntries[0].Quantity)
	}
}

func TestUpdateGeneral(t *testing.T) {
	data, err := Normalize(aldecPayload(), "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	currency := "USD"
	weight := 900.0
	data.UpdateGeneral(GeneralPatch{Currency: &currency, GrossWeight: &weight})

	if data.GeneralInformation.Currency != "USD" {
		t.Fatalf("currency: %q", data.GeneralInformation.Currency)
	}
	if data.GeneralInformation.GrossWeight != 900 {
		t.Fatalf("gross weight: %v", data.GeneralInformation.GrossWeight)
	}
	// Untouched fields stay put.
	if data.GeneralInformation.Incoterms != "CIF" {
		t.Fatalf("untouched field changed: %q", data.GeneralInformation.Incoterms)
	}
}
