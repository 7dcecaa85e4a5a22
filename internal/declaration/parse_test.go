package declaration

import "testing"

func TestParseStatisticalDetails(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []StatisticalUOM
	}{
		{
			name:  "two segments",
			input: "10 CTN, 5.5 BTL",
			want: []StatisticalUOM{
				{UOM: "CTN", Quantity: 10},
				{UOM: "BTL", Quantity: 5.5},
			},
		},
		{
			name:  "unparseable segment keeps token as UOM",
			input: "garbage",
			want:  []StatisticalUOM{{UOM: "garbage", Quantity: 0}},
		},
		{
			name:  "single segment",
			input: "3 PKG",
			want:  []StatisticalUOM{{UOM: "PKG", Quantity: 3}},
		},
		{
			name:  "blank segments skipped",
			input: "10 CTN, , 2 BTL",
			want: []StatisticalUOM{
				{UOM: "CTN", Quantity: 10},
				{UOM: "BTL", Quantity: 2},
			},
		},
		{
			name:  "non-numeric prefix defaults qty to zero",
			input: "about CTN",
			want:  []StatisticalUOM{{UOM: "CTN", Quantity: 0}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseStatisticalDetails(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d entries want %d: %+v", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i].UOM != tc.want[i].UOM || got[i].Quantity != tc.want[i].Quantity {
					t.Fatalf("entry %d: got %+v want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
