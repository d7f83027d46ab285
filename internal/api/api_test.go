package api

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"peopledesk/internal/apperror"
	appvalidator "peopledesk/internal/validator"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind apperror.Kind
		want int
	}{
		{apperror.KindUnauthenticated, fiber.StatusUnauthorized},
		{apperror.KindForbidden, fiber.StatusForbidden},
		{apperror.KindNotFound, fiber.StatusNotFound},
		{apperror.KindConflict, fiber.StatusConflict},
		{apperror.KindValidation, fiber.StatusUnprocessableEntity},
		{apperror.KindInternal, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForKind(tt.kind), string(tt.kind))
	}
}

func TestValidationMessageNamesField(t *testing.T) {
	v := appvalidator.New()
	err := v.Validate(struct {
		Email string `validate:"required,email"`
	}{Email: "not-an-email"})

	msg := validationMessage(err)
	assert.Contains(t, msg, "Email")
	assert.Contains(t, msg, "email")
}
