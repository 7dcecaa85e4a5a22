package declaration

import "strings"

// FormType is one of the ten recognized output-layout keys.
type FormType string

const (
	FormK1 FormType = "K1"
	FormK2 FormType = "K2"
	FormK3 FormType = "K3"
	FormK8 FormType = "K8"
	FormK9 FormType = "K9"

	FormSealnetK1 FormType = "SEALNET_K1"
	FormSealnetK2 FormType = "SEALNET_K2"
	FormSealnetK3 FormType = "SEALNET_K3"
	FormSealnetK8 FormType = "SEALNET_K8"
	FormSealnetK9 FormType = "SEALNET_K9"
)

// ResolveFormType decides which layout applies, given the output-format name
// reported by the backend, the payload's template type, and an optional user
// override. The result is always one of the ten registered keys.
//
// SEALNET payloads lock the result to SEALNET_K1 or SEALNET_K2 regardless of
// the format name or any override; the other three SEALNET layouts are
// reachable only by direct key assignment. Callers must re-run this whenever
// the template type changes so an earlier ALDEC override can never survive a
// SEALNET payload.
func ResolveFormType(outputFormatName string, templateType TemplateType, userOverride FormType) FormType {
	base := baseFormFromName(outputFormatName)

	if templateType == TemplateSEALNET {
		if base == FormK2 {
			return FormSealnetK2
		}
		return FormSealnetK1
	}

	if userOverride != "" && isRegisteredFormType(userOverride) {
		return userOverride
	}
	return base
}

// baseFormFromName matches the lower-cased format name against keyword sets
// in priority order, then two exact-name special cases, then defaults to K1.
func baseFormFromName(outputFormatName string) FormType {
	name := strings.ToLower(strings.TrimSpace(outputFormatName))

	keywordRules := []struct {
		form     FormType
		keywords []string
	}{
		{FormK1, []string{"k1", "malaysia", "customs"}},
		{FormK2, []string{"k2", "simplified"}},
		{FormK3, []string{"k3"}},
		{FormK8, []string{"k8"}},
		{FormK9, []string{"k9", "advanced"}},
	}
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.form
			}
		}
	}

	switch name {
	case "express clearance":
		return FormK2
	case "temporary import":
		return FormK9
	}

	return FormK1
}

func isRegisteredFormType(ft FormType) bool {
	_, ok := formLayouts[ft]
	return ok
}
