package taxpayer

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/taxpayer-registry/internal/application/dto"
	"github.com/jhoicas/taxpayer-registry/internal/application/validation"
	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
)

type lengthRule struct {
	field string
	v     *string
	max   int
}

func checkLengths(rules ...lengthRule) error {
	for _, r := range rules {
		if err := validation.MaxLen(r.field, r.v, r.max); err != nil {
			return err
		}
	}
	return nil
}

func parseState(v string) (entity.Region, error) {
	r := entity.Region(v)
	if !r.Valid() {
		return "", domain.BadRequest("state must be one of the 36 states or FCT")
	}
	return r, nil
}

func parseStatus(v string) (entity.TaxpayerStatus, error) {
	st := entity.TaxpayerStatus(v)
	if !st.Valid() {
		return "", domain.BadRequest("status must be one of active, inactive, pending, suspended, deleted")
	}
	return st, nil
}

func parseDate(field string, v *string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	d, err := validation.Date(field, *v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func checkContact(email, phone *string) error {
	if email != nil {
		if err := validation.Email("email", *email); err != nil {
			return err
		}
	}
	if phone != nil {
		if err := validation.Phone(*phone); err != nil {
			return err
		}
	}
	return nil
}

// newTaxpayer validates a create request and builds the record it describes.
// Identity, status and audit stamps are left to the caller.
func newTaxpayer(in dto.CreateTaxpayerRequest) (*entity.Taxpayer, error) {
	if err := validation.Name("full_name", in.FullName); err != nil {
		return nil, err
	}
	if in.TIN != nil {
		if err := validation.TIN(*in.TIN); err != nil {
			return nil, err
		}
	}
	if in.BVN != nil {
		if err := validation.ElevenDigits("bvn", *in.BVN); err != nil {
			return nil, err
		}
	}
	if in.NIN != nil {
		if err := validation.ElevenDigits("nin", *in.NIN); err != nil {
			return nil, err
		}
	}
	if err := checkContact(in.Email, in.PhoneNumber); err != nil {
		return nil, err
	}
	err := checkLengths(
		lengthRule{"address", in.Address, 500},
		lengthRule{"city", in.City, 100},
		lengthRule{"business_name", in.BusinessName, 255},
		lengthRule{"rc_number", in.RCNumber, 50},
		lengthRule{"business_type", in.BusinessType, 100},
		lengthRule{"industry", in.Industry, 100},
		lengthRule{"employment_status", in.EmploymentStatus, 50},
		lengthRule{"job_title", in.JobTitle, 100},
	)
	if err != nil {
		return nil, err
	}
	state, err := parseState(in.State)
	if err != nil {
		return nil, err
	}
	taxType := entity.TaxPAYE
	if in.TaxType != "" {
		taxType = entity.TaxType(in.TaxType)
		if !taxType.Valid() {
			return nil, domain.BadRequest("tax_type must be one of PAYE, VAT, CIT, WHT, PIT")
		}
	}
	employmentDate, err := parseDate("employment_date", in.EmploymentDate)
	if err != nil {
		return nil, err
	}

	metadata := entity.CloneMap(in.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &entity.Taxpayer{
		FullName:         in.FullName,
		TIN:              in.TIN,
		BVN:              in.BVN,
		NIN:              in.NIN,
		Email:            in.Email,
		PhoneNumber:      in.PhoneNumber,
		Address:          in.Address,
		City:             in.City,
		State:            state,
		TaxType:          taxType,
		BusinessName:     in.BusinessName,
		RCNumber:         in.RCNumber,
		BusinessType:     in.BusinessType,
		Industry:         in.Industry,
		EmployerID:       in.EmployerID,
		EmploymentStatus: in.EmploymentStatus,
		JobTitle:         in.JobTitle,
		EmploymentDate:   employmentDate,
		Status:           entity.TaxpayerPending,
		Metadata:         metadata,
	}, nil
}

// applyUpdate validates the patch and writes its present fields into t.
// On error t is left untouched.
func applyUpdate(t *entity.Taxpayer, in dto.UpdateTaxpayerRequest) error {
	if in.FullName != nil {
		if err := validation.Name("full_name", *in.FullName); err != nil {
			return err
		}
	}
	if err := checkContact(in.Email, in.PhoneNumber); err != nil {
		return err
	}
	err := checkLengths(
		lengthRule{"address", in.Address, 500},
		lengthRule{"city", in.City, 100},
		lengthRule{"business_name", in.BusinessName, 255},
		lengthRule{"rc_number", in.RCNumber, 50},
		lengthRule{"business_type", in.BusinessType, 100},
		lengthRule{"industry", in.Industry, 100},
		lengthRule{"employment_status", in.EmploymentStatus, 50},
		lengthRule{"job_title", in.JobTitle, 100},
	)
	if err != nil {
		return err
	}
	state := t.State
	if in.State != nil {
		if state, err = parseState(*in.State); err != nil {
			return err
		}
	}
	status := t.Status
	if in.Status != nil {
		if status, err = parseStatus(*in.Status); err != nil {
			return err
		}
		if !t.Status.CanTransitionTo(status) {
			return domain.BadRequest("cannot change status from %s to %s", t.Status, status)
		}
	}
	employmentDate, err := parseDate("employment_date", in.EmploymentDate)
	if err != nil {
		return err
	}

	set(&t.FullName, in.FullName)
	setOpt(&t.Email, in.Email)
	setOpt(&t.PhoneNumber, in.PhoneNumber)
	setOpt(&t.Address, in.Address)
	setOpt(&t.City, in.City)
	setOpt(&t.BusinessName, in.BusinessName)
	setOpt(&t.RCNumber, in.RCNumber)
	setOpt(&t.BusinessType, in.BusinessType)
	setOpt(&t.Industry, in.Industry)
	setOpt(&t.EmploymentStatus, in.EmploymentStatus)
	setOpt(&t.JobTitle, in.JobTitle)
	if employmentDate != nil {
		t.EmploymentDate = employmentDate
	}
	t.State = state
	t.Status = status
	t.MergeMetadata(entity.CloneMap(in.Metadata))
	return nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setOpt(dst **string, v *string) {
	if v != nil {
		s := *v
		*dst = &s
	}
}

// snapshot is the audited view of a record before and after an update.
func snapshot(t *entity.Taxpayer) map[string]any {
	var email any
	if t.Email != nil {
		email = *t.Email
	}
	return map[string]any{
		"full_name": t.FullName,
		"email":     email,
		"status":    string(t.Status),
		"metadata":  entity.CloneMap(t.Metadata),
	}
}

// requestDetails renders a request as the JSON object stored in audit details.
func requestDetails(in any) map[string]any {
	b, err := json.Marshal(in)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]any{}
	}
	return out
}
