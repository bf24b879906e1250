package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	err := New(CodeNotFound, "user not found")
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeUnavailable, "store unavailable")

	require.True(t, HasCode(err, CodeUnavailable))
	assert.ErrorIs(t, err, cause)

	// Wrapping again still resolves to the outermost code.
	outer := fmt.Errorf("create user: %w", err)
	assert.Equal(t, CodeUnavailable, CodeOf(outer))
}

func TestCodeOfUnclassified(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("mystery")))
}

func TestValidationCarriesAllViolations(t *testing.T) {
	err := NewValidation([]FieldViolation{
		{Field: "email", Message: "Please enter email."},
		{Field: "firstName", Message: "Please enter first name."},
	})

	require.True(t, HasCode(err, CodeValidation))
	violations := ViolationsOf(err)
	require.Len(t, violations, 2)
	assert.Equal(t, "email", violations[0].Field)
	assert.Equal(t, "firstName", violations[1].Field)
}

func TestNewFieldViolation(t *testing.T) {
	err := NewFieldViolation("birthDate", "not-a-date")

	require.True(t, HasCode(err, CodeInvalidInput))
	violations := ViolationsOf(err)
	require.Len(t, violations, 1)
	assert.Equal(t, "birthDate", violations[0].Field)
	assert.Contains(t, err.Error(), "not-a-date")
}
