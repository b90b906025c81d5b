package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Status string `json:"status" validate:"required,appointment_status"`
	Phone  string `json:"phone" validate:"omitempty,phone"`
	Email  string `json:"email" validate:"omitempty,email"`
}

func TestValidate_CustomTags(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&sampleRequest{Status: "scheduled", Phone: "+7 (900) 123-45-67"}))

	err := v.Validate(&sampleRequest{Status: "pending", Phone: "abc"})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Equal(t, "status must be a valid appointment status", msgs["status"])
	assert.Equal(t, "phone must be a valid phone number", msgs["phone"])
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleRequest{Email: "nope"})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Contains(t, msgs, "status")
	assert.Equal(t, "email must be a valid email address", msgs["email"])
}
