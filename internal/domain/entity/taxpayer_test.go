package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxType_Predicates(t *testing.T) {
	for _, tt := range TaxTypes {
		tp := &Taxpayer{TaxType: tt}
		assert.NotEqual(t, tp.IsIndividual(), tp.IsCompany(), "tax type %s", tt)
	}
	assert.True(t, (&Taxpayer{TaxType: TaxPIT}).IsIndividual())
	assert.True(t, (&Taxpayer{TaxType: TaxWHT}).IsCompany())
	assert.False(t, TaxType("GST").Valid())
}

func TestTaxpayerStatus_CanTransitionTo(t *testing.T) {
	for _, from := range TaxpayerStatuses {
		assert.True(t, from.CanTransitionTo(from), "%s to itself", from)
		assert.True(t, from.CanTransitionTo(TaxpayerDeleted), "%s to deleted", from)
	}
	assert.True(t, TaxpayerPending.CanTransitionTo(TaxpayerSuspended))
	assert.True(t, TaxpayerSuspended.CanTransitionTo(TaxpayerActive))
	for _, to := range []TaxpayerStatus{TaxpayerActive, TaxpayerInactive, TaxpayerPending, TaxpayerSuspended} {
		assert.False(t, TaxpayerDeleted.CanTransitionTo(to), "deleted to %s", to)
	}
}

func TestRegions(t *testing.T) {
	assert.Len(t, Regions, 37)
	assert.True(t, Region("FCT").Valid())
	assert.True(t, Region("Akwa Ibom").Valid())
	assert.False(t, Region("lagos").Valid())
}

func TestMergeMetadata(t *testing.T) {
	tp := &Taxpayer{}
	tp.MergeMetadata(map[string]any{"a": 1})
	tp.MergeMetadata(map[string]any{"b": 2})
	tp.MergeMetadata(nil)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, tp.Metadata)

	tp.MergeMetadata(map[string]any{"a": "x"})
	assert.Equal(t, "x", tp.Metadata["a"])
}

func TestClone_IsDeep(t *testing.T) {
	tp := &Taxpayer{
		Metadata: map[string]any{"nested": map[string]any{"k": "v"}, "list": []any{"a"}},
		Employer: &Organization{Name: "Acme"},
	}
	c := tp.Clone()
	c.Metadata["nested"].(map[string]any)["k"] = "changed"
	c.Metadata["list"].([]any)[0] = "b"
	c.Employer.Name = "Other"

	assert.Equal(t, "v", tp.Metadata["nested"].(map[string]any)["k"])
	assert.Equal(t, "a", tp.Metadata["list"].([]any)[0])
	assert.Equal(t, "Acme", tp.Employer.Name)
	assert.Nil(t, (*Taxpayer)(nil).Clone())
}

func TestVerificationRate(t *testing.T) {
	assert.True(t, VerificationRate(0, 0).IsZero())
	assert.Equal(t, "50", VerificationRate(2, 1).String())
	assert.Equal(t, "66.67", VerificationRate(3, 2).String())
	assert.Equal(t, "100", VerificationRate(7, 7).String())
}

func TestSameOrganization(t *testing.T) {
	a, b := "o1", "o1"
	c := "o2"
	assert.True(t, SameOrganization(nil, nil))
	assert.True(t, SameOrganization(&a, &b))
	assert.False(t, SameOrganization(&a, &c))
	assert.False(t, SameOrganization(&a, nil))
}
