package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxType is the tax category of a taxpayer.
type TaxType string

const (
	TaxPAYE TaxType = "PAYE" // pay as you earn
	TaxVAT  TaxType = "VAT"  // value added
	TaxCIT  TaxType = "CIT"  // company income
	TaxWHT  TaxType = "WHT"  // withholding
	TaxPIT  TaxType = "PIT"  // personal income
)

// TaxTypes lists every valid tax type.
var TaxTypes = []TaxType{TaxPAYE, TaxVAT, TaxCIT, TaxWHT, TaxPIT}

func (t TaxType) Valid() bool {
	for _, v := range TaxTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Individual reports whether the category applies to natural persons.
func (t TaxType) Individual() bool { return t == TaxPAYE || t == TaxPIT }

// Company reports whether the category applies to companies.
func (t TaxType) Company() bool { return t == TaxCIT || t == TaxVAT || t == TaxWHT }

// TaxpayerStatus is the lifecycle status of a taxpayer record.
type TaxpayerStatus string

const (
	TaxpayerActive    TaxpayerStatus = "active"
	TaxpayerInactive  TaxpayerStatus = "inactive"
	TaxpayerPending   TaxpayerStatus = "pending"
	TaxpayerSuspended TaxpayerStatus = "suspended"
	TaxpayerDeleted   TaxpayerStatus = "deleted"
)

// TaxpayerStatuses lists every valid status.
var TaxpayerStatuses = []TaxpayerStatus{
	TaxpayerActive, TaxpayerInactive, TaxpayerPending, TaxpayerSuspended, TaxpayerDeleted,
}

func (s TaxpayerStatus) Valid() bool {
	for _, v := range TaxpayerStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a record in status s may move to next.
// deleted is terminal; every status may move to deleted.
func (s TaxpayerStatus) CanTransitionTo(next TaxpayerStatus) bool {
	if s == next || next == TaxpayerDeleted {
		return true
	}
	return s != TaxpayerDeleted
}

// Region is one of the administrative regions a taxpayer is registered in.
type Region string

// Regions: the 36 states plus the Federal Capital Territory.
var Regions = []Region{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue", "Borno",
	"Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu", "FCT", "Gombe", "Imo",
	"Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi", "Kwara", "Lagos", "Nasarawa",
	"Niger", "Ogun", "Ondo", "Osun", "Oyo", "Plateau", "Rivers", "Sokoto", "Taraba",
	"Yobe", "Zamfara",
}

func (r Region) Valid() bool {
	for _, v := range Regions {
		if r == v {
			return true
		}
	}
	return false
}

// VerificationKey is the metadata key that holds the details supplied on verification.
const VerificationKey = "verification"

// Taxpayer is the core registry record.
type Taxpayer struct {
	ID       string
	FullName string
	TIN      *string // unique when present
	BVN      *string
	NIN      *string

	Email       *string
	PhoneNumber *string
	Address     *string
	City        *string

	State   Region
	TaxType TaxType

	BusinessName *string
	RCNumber     *string
	BusinessType *string
	Industry     *string

	EmployerID       *string
	EmploymentStatus *string
	JobTitle         *string
	EmploymentDate   *time.Time

	Status           TaxpayerStatus
	IsVerified       bool
	VerificationDate *time.Time
	LastFilingDate   *time.Time

	Metadata map[string]any

	CreatedBy *string
	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Employer is only loaded for detail views.
	Employer *Organization
}

func (t *Taxpayer) IsIndividual() bool { return t.TaxType.Individual() }

func (t *Taxpayer) IsCompany() bool { return t.TaxType.Company() }

// MergeMetadata adds or overwrites the keys of patch; keys absent from patch are kept.
func (t *Taxpayer) MergeMetadata(patch map[string]any) {
	if len(patch) == 0 {
		return
	}
	if t.Metadata == nil {
		t.Metadata = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		t.Metadata[k] = v
	}
}

// Clone returns a copy that shares no mutable state with t.
func (t *Taxpayer) Clone() *Taxpayer {
	if t == nil {
		return nil
	}
	c := *t
	c.Metadata = CloneMap(t.Metadata)
	if t.Employer != nil {
		e := *t.Employer
		c.Employer = &e
	}
	return &c
}

// CloneMap copies a JSON-like map recursively.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return CloneMap(x)
	case []any:
		s := make([]any, len(x))
		for i := range x {
			s[i] = cloneValue(x[i])
		}
		return s
	default:
		return v
	}
}

// TaxpayerStats aggregates non-deleted taxpayers in a scope.
type TaxpayerStats struct {
	Total            int
	Verified         int
	VerificationRate decimal.Decimal // percentage, two decimals
	ByTaxType        map[TaxType]int
	ByStatus         map[TaxpayerStatus]int
	ByState          map[Region]int
}

// VerificationRate returns verified/total as a percentage rounded to two decimals, or zero when total is zero.
func VerificationRate(total, verified int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(verified)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
