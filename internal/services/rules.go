package services

import (
	"encoding/json"
	"strings"

	"github.com/klearport/customs-console/internal/declaration"
	"github.com/klearport/customs-console/internal/models"
)

// ApplyRules runs a company's transformation rules over the general
// information of freshly normalized data. Rules target header fields by json
// key; a rule whose match string is empty applies unconditionally, otherwise
// it applies only when the current value contains the match. Only string
// fields can be rewritten; rules naming numeric or unknown fields are
// ignored. Item rows are never touched.
func ApplyRules(data *declaration.CanonicalData, rules []*models.TransformRule) {
	if data == nil || len(rules) == 0 {
		return
	}

	raw, err := json.Marshal(data.GeneralInformation)
	if err != nil {
		return
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}

	changed := false
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		current, ok := fields[rule.Field].(string)
		if !ok {
			continue
		}
		if rule.Match != "" && !strings.Contains(current, rule.Match) {
			continue
		}
		if rule.Match == "" {
			fields[rule.Field] = rule.Replacement
		} else {
			fields[rule.Field] = strings.ReplaceAll(current, rule.Match, rule.Replacement)
		}
		changed = true
	}
	if !changed {
		return
	}

	patched, err := json.Marshal(fields)
	if err != nil {
		return
	}
	var general declaration.GeneralInformation
	if err := json.Unmarshal(patched, &general); err != nil {
		return
	}
	data.GeneralInformation = general
}
