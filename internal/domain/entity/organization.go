package entity

import "time"

// OrganizationType classifies an organization.
type OrganizationType string

const (
	OrganizationAccountingFirm OrganizationType = "accounting_firm"
	OrganizationEmployer       OrganizationType = "employer"
	OrganizationFintech        OrganizationType = "fintech"
)

// Valid reports whether t is a known organization type.
func (t OrganizationType) Valid() bool {
	switch t {
	case OrganizationAccountingFirm, OrganizationEmployer, OrganizationFintech:
		return true
	}
	return false
}

// Organization owns users and, through the employer reference, taxpayers.
type Organization struct {
	ID                 string
	Name               string
	Type               OrganizationType
	State              *string
	RegistrationNumber *string // unique when present
	TaxID              *string // unique when present
	ContactEmail       *string
	ContactPhone       *string
	Address            *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
