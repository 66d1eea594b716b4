package dto

import "time"

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CreateTaxpayerRequest input for create and for every item of a bulk create.
type CreateTaxpayerRequest struct {
	FullName    string  `json:"full_name" validate:"required,min=2,max=255"`
	TIN         *string `json:"tin" validate:"omitempty,numeric,min=10,max=12"`
	BVN         *string `json:"bvn" validate:"omitempty,numeric,len=11"`
	NIN         *string `json:"nin" validate:"omitempty,numeric,len=11"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=50"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	City        *string `json:"city" validate:"omitempty,max=100"`

	State   string `json:"state" validate:"required"`
	TaxType string `json:"tax_type" validate:"omitempty,oneof=PAYE VAT CIT WHT PIT"`

	BusinessName *string `json:"business_name" validate:"omitempty,max=255"`
	RCNumber     *string `json:"rc_number" validate:"omitempty,max=50"`
	BusinessType *string `json:"business_type" validate:"omitempty,max=100"`
	Industry     *string `json:"industry" validate:"omitempty,max=100"`

	EmployerID       *string `json:"employer_id" validate:"omitempty,uuid"`
	EmploymentStatus *string `json:"employment_status" validate:"omitempty,max=50"`
	JobTitle         *string `json:"job_title" validate:"omitempty,max=100"`
	EmploymentDate   *string `json:"employment_date" validate:"omitempty,datetime=2006-01-02"`

	Metadata map[string]any `json:"metadata"`
}

// UpdateTaxpayerRequest patch; nil fields are left untouched and Metadata is merged key by key.
type UpdateTaxpayerRequest struct {
	FullName         *string        `json:"full_name" validate:"omitempty,min=2,max=255"`
	Email            *string        `json:"email" validate:"omitempty,email"`
	PhoneNumber      *string        `json:"phone_number" validate:"omitempty,max=50"`
	Address          *string        `json:"address" validate:"omitempty,max=500"`
	City             *string        `json:"city" validate:"omitempty,max=100"`
	State            *string        `json:"state"`
	BusinessName     *string        `json:"business_name" validate:"omitempty,max=255"`
	RCNumber         *string        `json:"rc_number" validate:"omitempty,max=50"`
	BusinessType     *string        `json:"business_type" validate:"omitempty,max=100"`
	Industry         *string        `json:"industry" validate:"omitempty,max=100"`
	EmploymentStatus *string        `json:"employment_status" validate:"omitempty,max=50"`
	JobTitle         *string        `json:"job_title" validate:"omitempty,max=100"`
	EmploymentDate   *string        `json:"employment_date" validate:"omitempty,datetime=2006-01-02"`
	Status           *string        `json:"status" validate:"omitempty,oneof=active inactive pending suspended deleted"`
	Metadata         map[string]any `json:"metadata"`
}

// VerifyTaxpayerRequest optional verification details, stored under metadata["verification"].
type VerifyTaxpayerRequest struct {
	Details map[string]any `json:"details"`
}

// BulkCreateTaxpayersRequest input of a bulk create.
type BulkCreateTaxpayersRequest struct {
	Taxpayers []CreateTaxpayerRequest `json:"taxpayers"`
}

// TaxpayerFilter query predicates of a listing.
type TaxpayerFilter struct {
	State         *string    `query:"state"`
	TaxType       *string    `query:"tax_type"`
	Status        *string    `query:"status"`
	EmployerID    *string    `query:"employer_id"`
	IsVerified    *bool      `query:"is_verified"`
	Search        string     `query:"search"`
	CreatedAfter  *time.Time `query:"-"`
	CreatedBefore *time.Time `query:"-"`
}

// TaxpayerResponse a taxpayer record.
type TaxpayerResponse struct {
	ID               string         `json:"id"`
	FullName         string         `json:"full_name"`
	TIN              *string        `json:"tin"`
	BVN              *string        `json:"bvn"`
	NIN              *string        `json:"nin"`
	Email            *string        `json:"email"`
	PhoneNumber      *string        `json:"phone_number"`
	Address          *string        `json:"address"`
	City             *string        `json:"city"`
	State            string         `json:"state"`
	TaxType          string         `json:"tax_type"`
	BusinessName     *string        `json:"business_name"`
	RCNumber         *string        `json:"rc_number"`
	BusinessType     *string        `json:"business_type"`
	Industry         *string        `json:"industry"`
	EmployerID       *string        `json:"employer_id"`
	EmploymentStatus *string        `json:"employment_status"`
	JobTitle         *string        `json:"job_title"`
	EmploymentDate   *string        `json:"employment_date"`
	Status           string         `json:"status"`
	IsVerified       bool           `json:"is_verified"`
	VerificationDate *string        `json:"verification_date"`
	LastFilingDate   *string        `json:"last_filing_date"`
	Metadata         map[string]any `json:"metadata"`
	CreatedBy        *string        `json:"created_by"`
	UpdatedBy        *string        `json:"updated_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	IsIndividual     bool           `json:"is_individual"`
	IsCompany        bool           `json:"is_company"`
}

// TaxpayerDetailResponse a taxpayer with its employer and related counters.
type TaxpayerDetailResponse struct {
	TaxpayerResponse
	Employer          *OrganizationResponse `json:"employer"`
	FilingCount       int                   `json:"filing_count"`
	ActiveRefundCases int                   `json:"active_refund_cases"`
}

// TaxpayerListResponse one page of taxpayers.
type TaxpayerListResponse struct {
	Items []TaxpayerResponse `json:"items"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
	Pages int                `json:"pages"`
}

// BulkFailure an input item that could not be created.
type BulkFailure struct {
	Data  CreateTaxpayerRequest `json:"data"`
	Error string                `json:"error"`
}

// BulkResult outcome of a bulk create, in input order.
type BulkResult struct {
	Successful      []TaxpayerResponse `json:"successful"`
	Failed          []BulkFailure      `json:"failed"`
	TotalProcessed  int                `json:"total_processed"`
	SuccessfulCount int                `json:"successful_count"`
	FailedCount     int                `json:"failed_count"`
}

// TaxpayerStatsResponse aggregates over non-deleted taxpayers.
type TaxpayerStatsResponse struct {
	Total            int            `json:"total"`
	Verified         int            `json:"verified"`
	VerificationRate float64        `json:"verification_rate"`
	ByTaxType        map[string]int `json:"by_tax_type"`
	ByStatus         map[string]int `json:"by_status"`
	ByState          map[string]int `json:"by_state"`
}
