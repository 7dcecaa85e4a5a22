package models

import "time"

// TransformRule rewrites one general-information field at preview time.
// Match is a substring test against the extracted value; an empty match
// applies unconditionally. Rules belong to a company and run in ID order.
type TransformRule struct {
	ID          int       `json:"id"`
	CompanyID   int       `json:"company_id"`
	Field       string    `json:"field"`
	Match       string    `json:"match"`
	Replacement string    `json:"replacement"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRuleRequest is the request body for rule creation
type CreateRuleRequest struct {
	CompanyID   int    `json:"company_id"`
	Field       string `json:"field"`
	Match       string `json:"match"`
	Replacement string `json:"replacement"`
}

// UpdateRuleRequest is the request body for rule updates
type UpdateRuleRequest struct {
	Field       *string `json:"field,omitempty"`
	Match       *string `json:"match,omitempty"`
	Replacement *string `json:"replacement,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}
