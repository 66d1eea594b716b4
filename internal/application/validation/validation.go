// Package validation holds the input rules shared by the use cases.
// Every failure is a domain BadRequest error naming the offending field.
package validation

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jhoicas/taxpayer-registry/internal/domain"
)

var (
	tinPattern   = regexp.MustCompile(`^\d{10,12}$`)
	elevenDigits = regexp.MustCompile(`^\d{11}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{7,}$`)
)

// Name checks a person or organization name: 2 to 255 characters after trimming.
func Name(field, v string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	if n < 2 || n > 255 {
		return domain.BadRequest("%s must be between 2 and 255 characters", field)
	}
	return nil
}

// MaxLen checks an optional free-text field.
func MaxLen(field string, v *string, max int) error {
	if v != nil && utf8.RuneCountInString(*v) > max {
		return domain.BadRequest("%s must be at most %d characters", field, max)
	}
	return nil
}

// Email checks a bare address such as ada@example.com.
func Email(field, v string) error {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@")+1:], ".") {
		return domain.BadRequest("%s is not a valid email address", field)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Password requires at least 8 characters with an upper case letter, a lower case letter and a digit.
func Password(field, v string) error {
	if utf8.RuneCountInString(v) < 8 {
		return domain.BadRequest("%s must be at least 8 characters long", field)
	}
	var upper, lower, digit bool
	for _, r := range v {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case !upper:
		return domain.BadRequest("%s must contain at least one uppercase letter", field)
	case !lower:
		return domain.BadRequest("%s must contain at least one lowercase letter", field)
	case !digit:
		return domain.BadRequest("%s must contain at least one digit", field)
	}
	return nil
}

// TIN: 10 to 12 digits.
func TIN(v string) error {
	if !tinPattern.MatchString(v) {
		return domain.BadRequest("tin must be 10 to 12 digits")
	}
	return nil
}

// ElevenDigits checks BVN and NIN.
func ElevenDigits(field, v string) error {
	if !elevenDigits.MatchString(v) {
		return domain.BadRequest("%s must be exactly 11 digits", field)
	}
	return nil
}

// Phone accepts digits, spaces, dashes and parentheses with an optional leading +, and at least 10 digits.
func Phone(v string) error {
	if !phonePattern.MatchString(v) {
		return domain.BadRequest("phone_number has an invalid format")
	}
	digits := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return domain.BadRequest("phone_number must contain at least 10 digits")
	}
	return nil
}

// Date parses a YYYY-MM-DD calendar date.
func Date(field, v string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, domain.BadRequest("%s must be a date formatted YYYY-MM-DD", field)
	}
	return d, nil
}
