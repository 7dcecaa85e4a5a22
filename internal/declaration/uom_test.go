package declaration

import "testing"

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestCanonicalizeQuantityFallbackChain(t *testing.T) {
	cases := []struct {
		name    string
		input   QuantityInput
		wantUOM string
		wantQty float64
	}{
		{
			name: "data entry wins over declared",
			input: QuantityInput{
				Data:        []any{map[string]any{"UOM": "CTN", "quantity": 4.0}},
				DeclaredUOM: "BTL",
				DeclaredQty: floatPtr(9),
			},
			wantUOM: "CTN",
			wantQty: 4,
		},
		{
			name: "declared scalar when no data",
			input: QuantityInput{
				DeclaredUOM: "BTL",
				DeclaredQty: floatPtr(9),
			},
			wantUOM: "BTL",
			wantQty: 9,
		},
		{
			name: "statistical when nothing else",
			input: QuantityInput{
				StatisticalUOM: []any{map[string]any{"UOM": "PKG", "quantity": 3.0}},
			},
			wantUOM: "PKG",
			wantQty: 3,
		},
		{
			name:    "all absent degrades to defaults",
			input:   QuantityInput{},
			wantUOM: "",
			wantQty: 0,
		},
		{
			name: "bare string statistical uses scalar qty",
			input: QuantityInput{
				StatisticalUOM: "CTN",
				StatisticalQty: floatPtr(12),
			},
			wantUOM: "CTN",
			wantQty: 12,
		},
		{
			name: "numeric strings coerced",
			input: QuantityInput{
				Data: []any{map[string]any{"UOM": "MTR", "quantity": "2.5"}},
			},
			wantUOM: "MTR",
			wantQty: 2.5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanonicalizeQuantity(tc.input)
			if got.UOM != tc.wantUOM {
				t.Fatalf("uom: got %q want %q", got.UOM, tc.wantUOM)
			}
			if got.Qty != tc.wantQty {
				t.Fatalf("qty: got %v want %v", got.Qty, tc.wantQty)
			}
			if got.DeclaredUOM != tc.wantUOM || got.StatisticalUOM != tc.wantUOM {
				t.Fatalf("projections diverge from canonical uom: %q / %q", got.DeclaredUOM, got.StatisticalUOM)
			}
			if got.DeclaredQty != tc.wantQty || got.StatisticalQty != tc.wantQty {
				t.Fatalf("projections diverge from canonical qty: %v / %v", got.DeclaredQty, got.StatisticalQty)
			}
		})
	}
}

func TestCanonicalizeQuantityConflictDeclaredWins(t *testing.T) {
	got := CanonicalizeQuantity(QuantityInput{
		DeclaredUOM:    "CTN",
		DeclaredQty:    floatPtr(10),
		StatisticalUOM: []any{map[string]any{"UOM": "BTL", "quantity": 12.0}},
		StatisticalQty: floatPtr(12),
	})
	if got.Qty != 10 {
		t.Fatalf("qty: got %v want 10 (declared wins)", got.Qty)
	}
	if got.UOM != "CTN" {
		t.Fatalf("uom: got %q want CTN (declared wins)", got.UOM)
	}
}

func TestCanonicalizeQuantityPrefersDeclaredUOMMatch(t *testing.T) {
	got := CanonicalizeQuantity(QuantityInput{
		StatisticalUOM: []any{
			map[string]any{"UOM": "BTL", "quantity": 5.0},
			map[string]any{"UOM": "ctn", "quantity": 8.0},
		},
		DeclaredUOM: "CTN",
	})
	// Declared UOM present but no declared qty: the declared scalar still
	// wins the canonical slot per the fallback chain.
	if got.UOM != "CTN" {
		t.Fatalf("uom: got %q want CTN", got.UOM)
	}
}

func TestCanonicalizeQuantitySynthesizesEntry(t *testing.T) {
	got := CanonicalizeQuantity(QuantityInput{DeclaredUOM: "KGM", DeclaredQty: floatPtr(2)})
	if len(got.DataEntries) != 1 {
		t.Fatalf("entries: got %d want 1 synthesized", len(got.DataEntries))
	}
	if got.DataEntries[0].UOM != "KGM" || got.DataEntries[0].Quantity != 2 {
		t.Fatalf("synthesized entry mismatch: %+v", got.DataEntries[0])
	}
}

func TestCanonicalizeQuantityBackfillsFirstEntry(t *testing.T) {
	got := CanonicalizeQuantity(QuantityInput{
		Data: []any{
			map[string]any{"UOM": "CTN"},
			map[string]any{"UOM": "BTL", "quantity": 6.0},
		},
	})
	if len(got.DataEntries) != 2 {
		t.Fatalf("entries: got %d want 2 (tail preserved)", len(got.DataEntries))
	}
	if got.DataEntries[1].UOM != "BTL" || got.DataEntries[1].Quantity != 6 {
		t.Fatalf("tail entry modified: %+v", got.DataEntries[1])
	}
}

func TestWithCanonicalFromUIValues(t *testing.T) {
	cur := QuantityCanonical{
		DataEntries: []StatisticalUOM{
			{UOM: "CTN", Quantity: 5},
			{UOM: "BTL", Quantity: 10},
		},
	}
	got := WithCanonicalFromUIValues(cur, "PKG", 7, floatPtr(0.8))
	if got.UOM != "PKG" || got.Qty != 7 {
		t.Fatalf("canonical: got %q/%v want PKG/7", got.UOM, got.Qty)
	}
	if len(got.DataEntries) != 2 {
		t.Fatalf("entries: got %d want 2 (tail preserved)", len(got.DataEntries))
	}
	if got.DataEntries[0].UOM != "PKG" || got.DataEntries[0].Quantity != 7 {
		t.Fatalf("first entry not overwritten: %+v", got.DataEntries[0])
	}
	if got.DataEntries[1].UOM != "BTL" {
		t.Fatalf("tail entry lost: %+v", got.DataEntries[1])
	}
	if got.Confidence == nil || *got.Confidence != 0.8 {
		t.Fatalf("confidence not carried: %v", got.Confidence)
	}
}

func TestDisplayStatisticalUOM(t *testing.T) {
	cases := []struct {
		name        string
		entries     []StatisticalUOM
		statQty     float64
		declaredUOM string
		want        string
	}{
		{
			name: "quantity match wins over first entry",
			entries: []StatisticalUOM{
				{UOM: "CTN", Quantity: 5},
				{UOM: "BTL", Quantity: 10},
			},
			statQty:     10,
			declaredUOM: "PKG",
			want:        "BTL",
		},
		{
			name: "first entry when no quantity match",
			entries: []StatisticalUOM{
				{UOM: "CTN", Quantity: 5},
				{UOM: "BTL", Quantity: 10},
			},
			statQty:     7,
			declaredUOM: "PKG",
			want:        "CTN",
		},
		{
			name:        "declared UOM when list empty",
			entries:     nil,
			statQty:     7,
			declaredUOM: "PKG",
			want:        "PKG",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DisplayStatisticalUOM(tc.entries, tc.statQty, tc.declaredUOM)
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
