package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signUp struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(signUp{Email: "a@x.com", Password: "pw123456"}))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(signUp{Email: "not-an-email"})
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "field 'email' failed 'email'")
	assert.Contains(t, err.Error(), "field 'password' failed 'required'")
}
