package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleVendor     UserRole = "VENDOR"
	RoleReviewer   UserRole = "REVIEWER"
	RoleApprover   UserRole = "APPROVER"
	RoleVerifier   UserRole = "VERIFIER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	VendorName   *string   `json:"vendor_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanVerify reports whether the user may perform on-site QR verification.
func (u *User) CanVerify() bool {
	switch u.Role {
	case RoleVerifier, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdminLevel reports whether the user sees all scan rows in history
// queries (verifier-level callers are scoped to their own scans).
func (u *User) IsAdminLevel() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func ValidRole(r UserRole) bool {
	switch r {
	case RoleVendor, RoleReviewer, RoleApprover, RoleVerifier, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
