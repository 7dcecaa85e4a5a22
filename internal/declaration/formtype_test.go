package declaration

import "testing"

func TestResolveFormTypeKeywords(t *testing.T) {
	cases := []struct {
		name   string
		format string
		want   FormType
	}{
		{name: "k1 keyword", format: "K1 Import Form", want: FormK1},
		{name: "malaysia keyword", format: "Malaysia Declaration", want: FormK1},
		{name: "customs keyword", format: "Customs Standard", want: FormK1},
		{name: "k2 keyword", format: "k2 export", want: FormK2},
		{name: "simplified keyword", format: "Simplified Layout", want: FormK2},
		{name: "k3 keyword", format: "borang k3", want: FormK3},
		{name: "k8 keyword", format: "K8 transshipment", want: FormK8},
		{name: "k9 keyword", format: "K9", want: FormK9},
		{name: "advanced keyword", format: "Advanced Form", want: FormK9},
		{name: "exact express clearance", format: "Express Clearance", want: FormK2},
		{name: "exact temporary import", format: "temporary import", want: FormK9},
		{name: "unknown defaults to K1", format: "mystery layout", want: FormK1},
		{name: "empty defaults to K1", format: "", want: FormK1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveFormType(tc.format, TemplateALDEC, "")
			if got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestResolveFormTypeSealnetLock(t *testing.T) {
	formats := []string{"", "K1", "K2 export", "K9 advanced", "mystery", "temporary import"}
	for _, format := range formats {
		got := ResolveFormType(format, TemplateSEALNET, "")
		if got != FormSealnetK1 && got != FormSealnetK2 {
			t.Fatalf("format %q resolved to non-sealnet key %s", format, got)
		}
	}

	if got := ResolveFormType("K2 export", TemplateSEALNET, ""); got != FormSealnetK2 {
		t.Fatalf("k2 base: got %s want SEALNET_K2", got)
	}
	if got := ResolveFormType("K9 advanced", TemplateSEALNET, ""); got != FormSealnetK1 {
		t.Fatalf("non-k2 base: got %s want SEALNET_K1", got)
	}
}

func TestResolveFormTypeOverride(t *testing.T) {
	if got := ResolveFormType("K1", TemplateALDEC, FormK8); got != FormK8 {
		t.Fatalf("override ignored: got %s", got)
	}
	// Overrides never survive a SEALNET payload.
	if got := ResolveFormType("K1", TemplateSEALNET, FormK8); got != FormSealnetK1 {
		t.Fatalf("override escaped sealnet lock: got %s", got)
	}
	// Unregistered overrides fall back to the computed value.
	if got := ResolveFormType("K3", TemplateALDEC, FormType("K99")); got != FormK3 {
		t.Fatalf("bogus override accepted: got %s", got)
	}
}
