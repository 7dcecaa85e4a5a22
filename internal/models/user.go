package models

import (
	"time"
)

type Role string

const (
	RoleViewer  Role = "viewer"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID           int        `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose in JSON
	Name         *string    `json:"name,omitempty"`
	CompanyID    *int       `json:"company_id,omitempty"`
	CompanyName  *string    `json:"company_name,omitempty"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// IsAdmin checks if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanEdit checks if the user may modify declaration data
func (u *User) CanEdit() bool {
	return u.Role == RoleAdmin || u.Role == RoleOfficer
}

// CurrentUser is the authenticated identity threaded explicitly through
// handlers and policy checks. Handlers build it from JWT claims and pass it
// down; nothing below the handler layer reads auth state from the request.
type CurrentUser struct {
	ID        int  `json:"id"`
	Role      Role `json:"role"`
	CompanyID *int `json:"company_id,omitempty"`
}

// CanAccessCompany reports whether the user may see data belonging to the
// given company. Admins see everything; everyone else is scoped to their own
// company.
func (cu CurrentUser) CanAccessCompany(companyID *int) bool {
	if cu.Role == RoleAdmin {
		return true
	}
	if cu.CompanyID == nil || companyID == nil {
		return false
	}
	return *cu.CompanyID == *companyID
}

// LoginRequest is the request body for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after successful login/refresh
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// ChangePasswordRequest is the request body for password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AdminCreateUserRequest is the request body for admin user creation
type AdminCreateUserRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Name      *string `json:"name,omitempty"`
	Role      Role    `json:"role"`
	CompanyID *int    `json:"company_id,omitempty"`
}

// AdminUpdateUserRequest is the request body for admin user updates
type AdminUpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	Name      *string `json:"name,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	CompanyID *int    `json:"company_id,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// AdminStats represents system-wide statistics
type AdminStats struct {
	TotalUsers        int `json:"total_users"`
	TotalCompanies    int `json:"total_companies"`
	TotalSessions     int `json:"total_sessions"`
	SessionsToday     int `json:"sessions_today"`
	ConfirmedSessions int `json:"confirmed_sessions"`
	FailedSessions    int `json:"failed_sessions"`
}
