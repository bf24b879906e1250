// Package validation enforces the field-presence and age-eligibility rules
// on a candidate user record.
//
// The validator is an explicit function returning a structured list of
// violations. All applicable violations are collected and returned together
// rather than short-circuiting on the first failure, so a caller can report
// every problem in one pass.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"roster/internal/user/models"
	dErrors "roster/pkg/domain-errors"
)

// Validator checks candidate records against the configured minimum age.
// Pure: the current date is passed in, never read from the clock.
type Validator struct {
	minYears int
}

// New constructs a Validator with the minimum eligible age in whole years.
func New(minYears int) *Validator {
	return &Validator{minYears: minYears}
}

// MinYears returns the configured minimum age.
func (v *Validator) MinYears() int {
	return v.minYears
}

// Validate returns every rule violation on the candidate, or nil when the
// candidate is valid. The ID field is not checked; the store assigns it.
func (v *Validator) Validate(now time.Time, u models.User) []dErrors.FieldViolation {
	var violations []dErrors.FieldViolation

	if strings.TrimSpace(u.Email) == "" {
		violations = append(violations, dErrors.FieldViolation{
			Field: models.FieldEmail, Message: "Please enter email.",
		})
	} else if !validEmail(u.Email) {
		violations = append(violations, dErrors.FieldViolation{
			Field: models.FieldEmail, Message: "Invalid email.",
		})
	}

	if strings.TrimSpace(u.FirstName) == "" {
		violations = append(violations, dErrors.FieldViolation{
			Field: models.FieldFirstName, Message: "Please enter first name.",
		})
	}

	if strings.TrimSpace(u.LastName) == "" {
		violations = append(violations, dErrors.FieldViolation{
			Field: models.FieldLastName, Message: "Please enter last name.",
		})
	}

	if u.BirthDate.IsZero() {
		violations = append(violations, dErrors.FieldViolation{
			Field: models.FieldBirthDate, Message: "Please enter birth date.",
		})
	} else if v.underage(now, u.BirthDate) {
		violations = append(violations, dErrors.FieldViolation{
			Field:   models.FieldBirthDate,
			Message: fmt.Sprintf("Available only to users over %d years of age", v.minYears),
		})
	}

	return violations
}

// underage reports whether the birth date is after today minus the minimum
// age. Boundary: a birth date exactly minYears ago today is eligible.
func (v *Validator) underage(now time.Time, birthDate models.Date) bool {
	cutoff := models.DateOf(now).AddYears(-v.minYears)
	return birthDate.After(cutoff)
}

// validEmail checks address syntax. ParseAddress also accepts the
// "Name <user@host>" form, so require the bare address back.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
