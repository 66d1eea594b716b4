package taxpayer

import (
	"time"

	"github.com/jhoicas/taxpayer-registry/internal/application/auth"
	"github.com/jhoicas/taxpayer-registry/internal/application/dto"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
)

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dto.DateLayout)
	return &s
}

// ToResponse maps a taxpayer to its public view.
func ToResponse(t *entity.Taxpayer) *dto.TaxpayerResponse {
	metadata := entity.CloneMap(t.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &dto.TaxpayerResponse{
		ID:               t.ID,
		FullName:         t.FullName,
		TIN:              t.TIN,
		BVN:              t.BVN,
		NIN:              t.NIN,
		Email:            t.Email,
		PhoneNumber:      t.PhoneNumber,
		Address:          t.Address,
		City:             t.City,
		State:            string(t.State),
		TaxType:          string(t.TaxType),
		BusinessName:     t.BusinessName,
		RCNumber:         t.RCNumber,
		BusinessType:     t.BusinessType,
		Industry:         t.Industry,
		EmployerID:       t.EmployerID,
		EmploymentStatus: t.EmploymentStatus,
		JobTitle:         t.JobTitle,
		EmploymentDate:   formatDate(t.EmploymentDate),
		Status:           string(t.Status),
		IsVerified:       t.IsVerified,
		VerificationDate: formatDate(t.VerificationDate),
		LastFilingDate:   formatDate(t.LastFilingDate),
		Metadata:         metadata,
		CreatedBy:        t.CreatedBy,
		UpdatedBy:        t.UpdatedBy,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		IsIndividual:     t.IsIndividual(),
		IsCompany:        t.IsCompany(),
	}
}

// ToDetailResponse adds the employer. Filings and refund cases are not tracked
// by the registry, so both counters are zero.
func ToDetailResponse(t *entity.Taxpayer) *dto.TaxpayerDetailResponse {
	return &dto.TaxpayerDetailResponse{
		TaxpayerResponse: *ToResponse(t),
		Employer:         auth.ToOrganizationResponse(t.Employer),
	}
}

func toStatsResponse(s *entity.TaxpayerStats) *dto.TaxpayerStatsResponse {
	out := &dto.TaxpayerStatsResponse{
		Total:     s.Total,
		Verified:  s.Verified,
		ByTaxType: make(map[string]int, len(s.ByTaxType)),
		ByStatus:  make(map[string]int, len(s.ByStatus)),
		ByState:   make(map[string]int, len(s.ByState)),
	}
	out.VerificationRate, _ = s.VerificationRate.Round(2).Float64()
	for k, v := range s.ByTaxType {
		out.ByTaxType[string(k)] = v
	}
	for k, v := range s.ByStatus {
		out.ByStatus[string(k)] = v
	}
	for k, v := range s.ByState {
		out.ByState[string(k)] = v
	}
	return out
}
