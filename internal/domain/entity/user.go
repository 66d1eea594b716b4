package entity

import "time"

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleAccountant   Role = "ACCOUNTANT"
	RoleEmployer     Role = "EMPLOYER"
	RoleOrganization Role = "ORGANIZATION"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleAccountant, RoleEmployer, RoleOrganization}

// Valid reports whether r belongs to the fixed role set.
func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// User is an account that can authenticate against the registry.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string // bcrypt hash, never the plain password
	Role           Role
	OrganizationID *string
	IsActive       bool
	IsVerified     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SameOrganization compares two optional organization references; two nil references match.
func SameOrganization(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
