package dto

import "time"

// CreateOrganizationRequest organization fields.
type CreateOrganizationRequest struct {
	Name               string  `json:"name" validate:"required,min=2,max=255"`
	Type               string  `json:"type" validate:"required,oneof=accounting_firm employer fintech"`
	State              *string `json:"state" validate:"omitempty,max=100"`
	RegistrationNumber *string `json:"registration_number" validate:"omitempty,max=100"`
	TaxID              *string `json:"tax_identification_number" validate:"omitempty,max=100"`
	ContactEmail       *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone       *string `json:"contact_phone" validate:"omitempty,max=50"`
	Address            *string `json:"address" validate:"omitempty,max=500"`
}

// RegisterOrganizationRequest an organization plus its first admin user.
type RegisterOrganizationRequest struct {
	CreateOrganizationRequest
	AdminUser RegisterRequest `json:"admin_user"`
}

// OrganizationResponse an organization.
type OrganizationResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	State              *string   `json:"state"`
	RegistrationNumber *string   `json:"registration_number"`
	TaxID              *string   `json:"tax_identification_number"`
	ContactEmail       *string   `json:"contact_email"`
	ContactPhone       *string   `json:"contact_phone"`
	Address            *string   `json:"address"`
	CreatedAt          time.Time `json:"created_at"`
}

// RegisterOrganizationResponse output of register-with-organization.
type RegisterOrganizationResponse struct {
	Organization OrganizationResponse `json:"organization"`
	User         UserResponse         `json:"user"`
}
