package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=2,max=10"`
	Role  string `json:"role" validate:"omitempty,oneof=admin user editor"`
}

func TestStructValid(t *testing.T) {
	err := Struct(sample{Email: "a@example.com", Name: "Ada"})
	assert.NoError(t, err)
}

func TestFirstReportsDeclarationOrder(t *testing.T) {
	// both fields invalid, email declared first
	err := Struct(sample{Email: "nope", Name: ""})
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email", First(err))

	assert.Equal(t, "", First(nil))
}

func TestFirstUsesJSONNames(t *testing.T) {
	err := Struct(sample{Email: "a@example.com", Name: "x"})
	require.Error(t, err)
	assert.Equal(t, "name must be at least 2 characters long", First(err))
}

func TestToDetails(t *testing.T) {
	err := Struct(sample{Email: "nope", Name: "this name is far too long", Role: "root"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at most 10 characters long", details["name"])
	assert.Equal(t, "must be one of: admin, user, editor", details["role"])

	assert.Nil(t, ToDetails(nil))
}
