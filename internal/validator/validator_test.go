package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type phoneForm struct {
	Phone string `validate:"required,phone"`
}

func TestPhoneValidation(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(phoneForm{Phone: "0612345678"}))
	assert.NoError(t, v.Validate(phoneForm{Phone: "12345"}))

	// Formatting characters are rejected, digits only.
	assert.Error(t, v.Validate(phoneForm{Phone: "+31612345678"}))
	assert.Error(t, v.Validate(phoneForm{Phone: "06-1234-5678"}))
	assert.Error(t, v.Validate(phoneForm{Phone: "1234"}))
	assert.Error(t, v.Validate(phoneForm{Phone: ""}))
}

type statusForm struct {
	Status string `validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

func TestStatusValidation(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(statusForm{}))
	assert.NoError(t, v.Validate(statusForm{Status: "ACTIVE"}))
	assert.Error(t, v.Validate(statusForm{Status: "DELETED"}))
}
