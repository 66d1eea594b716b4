package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/taxpayer-registry/internal/domain"
)

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("password", "Secret123"))

	for _, bad := range []string{"Sh0rt", "alllower1", "ALLUPPER1", "NoDigitsHere"} {
		err := Password("password", bad)
		assert.ErrorIs(t, err, domain.ErrBadRequest, bad)
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("email", "ada@example.com"))
	for _, bad := range []string{"", "ada", "ada@", "Ada <ada@example.com>", "ada@localhost"} {
		assert.ErrorIs(t, Email("email", bad), domain.ErrBadRequest, bad)
	}
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}

func TestTINAndIdentityNumbers(t *testing.T) {
	assert.NoError(t, TIN("1234567890"))
	assert.NoError(t, TIN("123456789012"))
	assert.Error(t, TIN("123456789"))
	assert.Error(t, TIN("1234567890123"))
	assert.Error(t, TIN("12345abcde"))

	assert.NoError(t, ElevenDigits("bvn", "12345678901"))
	assert.Error(t, ElevenDigits("bvn", "1234567890"))
}

func TestPhone(t *testing.T) {
	assert.NoError(t, Phone("+234 (803) 123-4567"))
	assert.NoError(t, Phone("08031234567"))
	assert.Error(t, Phone("123-4567"), "fewer than 10 digits")
	assert.Error(t, Phone("0803-CALL-ME"))
}

func TestName(t *testing.T) {
	assert.NoError(t, Name("full_name", "Ada Obi"))
	assert.Error(t, Name("full_name", " A "))
}

func TestDate(t *testing.T) {
	d, err := Date("employment_date", "2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	_, err = Date("employment_date", "29/02/2024")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
