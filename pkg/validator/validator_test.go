package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=18"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := testPayload{
		Name:  "alice",
		Email: "alice@example.com",
		Age:   20,
	}

	require.NoError(t, ValidateStruct(payload))
}

func TestValidateStructFailures(t *testing.T) {
	payload := testPayload{
		Name:  "   ",
		Email: "invalid",
		Age:   10,
	}

	err := ValidateStruct(payload)
	require.Error(t, err)

	vErrs, ok := err.(ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	require.Len(t, vErrs, 3)

	fields := map[string]string{}
	for _, v := range vErrs {
		fields[v.Field] = v.Tag
	}
	require.Equal(t, "notblank", fields["name"])
	require.Equal(t, "email", fields["email"])
}

func TestNotBlankAcceptsNilPointer(t *testing.T) {
	type patch struct {
		Title *string `json:"title" validate:"omitempty,notblank"`
	}
	require.NoError(t, ValidateStruct(patch{}))

	blank := "  "
	require.Error(t, ValidateStruct(patch{Title: &blank}))
}

func TestIsEmail(t *testing.T) {
	require.True(t, IsEmail("a@example.com"))
	require.True(t, IsEmail("  A@Example.com "))
	require.False(t, IsEmail(""))
	require.False(t, IsEmail("not-an-email"))
}

func TestRegisterValidation(t *testing.T) {
	err := RegisterValidation("groceries", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "groceries"
	})
	require.NoError(t, err)

	type custom struct {
		Value string `validate:"groceries"`
	}

	require.NoError(t, ValidateStruct(custom{Value: "groceries"}))
	require.Error(t, ValidateStruct(custom{Value: "other"}))
}
