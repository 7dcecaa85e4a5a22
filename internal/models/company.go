package models

import "time"

// Company is a customs brokerage tenant. Users and extraction sessions belong
// to a company; non-admin visibility is scoped by it.
type Company struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	UserCount int       `json:"user_count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCompanyRequest is the request body for company creation
type CreateCompanyRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// UpdateCompanyRequest is the request body for company updates
type UpdateCompanyRequest struct {
	Name   *string `json:"name,omitempty"`
	Code   *string `json:"code,omitempty"`
	Active *bool   `json:"active,omitempty"`
}
