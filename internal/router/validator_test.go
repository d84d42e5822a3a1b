package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/handler"
)

type idRequest struct {
	ID string `json:"id" validate:"required,objectid"`
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.ErrorIs(t, err, apperrors.ErrValidation)
	httpErr := apperrors.MapErrorToHTTP(err)
	out := map[string]string{}
	for _, f := range httpErr.Fields {
		out[f.Field] = f.Msg
	}
	return out
}

func validSignup() handler.SignupRequest {
	return handler.SignupRequest{
		Name:          "Alice Smith",
		Email:         "alice@example.com",
		Password:      "Secr3t!pass",
		StreetAddress: "12 Main Street",
		PostalCode:    "10115",
		Phone:         "+49 30 1234567",
	}
}

func TestValidator_Signup(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Validate(validSignup()))

	tests := []struct {
		name  string
		edit  func(r *handler.SignupRequest)
		field string
		msg   string
	}{
		{"digits in name", func(r *handler.SignupRequest) { r.Name = "Alice 2" }, "name", "name must contain only letters and spaces"},
		{"short name", func(r *handler.SignupRequest) { r.Name = "Al" }, "name", "name must be at least 4 characters"},
		{"bad email", func(r *handler.SignupRequest) { r.Email = "alice" }, "email", "Enter a valid email"},
		{"password without special", func(r *handler.SignupRequest) { r.Password = "Secr3tpass" }, "password", ""},
		{"password without digit", func(r *handler.SignupRequest) { r.Password = "Secret!pass" }, "password", ""},
		{"short password", func(r *handler.SignupRequest) { r.Password = "S3!a" }, "password", ""},
		{"postal code letters", func(r *handler.SignupRequest) { r.PostalCode = "AB12" }, "postalCode", "Invalid postal code format"},
		{"postal code too long", func(r *handler.SignupRequest) { r.PostalCode = "12345678901" }, "postalCode", "Invalid postal code format"},
		{"phone", func(r *handler.SignupRequest) { r.Phone = "call me" }, "phone", "Enter a valid phone number"},
		{"missing street", func(r *handler.SignupRequest) { r.StreetAddress = "" }, "streetAddress", "streetAddress is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.edit(&req)
			fields := fieldsOf(t, v.Validate(req))
			require.Contains(t, fields, tt.field)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, fields[tt.field])
			}
		})
	}
}

func TestValidator_EmbeddedFieldsUseJSONNames(t *testing.T) {
	v := NewValidator()
	role := "owner"
	bad := "x"

	req := handler.UpdateUserRequest{Role: &role}
	req.Name = &bad

	fields := fieldsOf(t, v.Validate(req))
	assert.Contains(t, fields, "role")
	assert.Contains(t, fields, "name")
}

func TestValidator_PostStatus(t *testing.T) {
	v := NewValidator()
	req := handler.CreatePostRequest{
		Title:       "Need a ladder",
		Description: "Borrowing a ladder for an afternoon.",
		Street:      "Main Street",
		PostalCode:  "10115",
		Status:      "in progress",
	}
	require.NoError(t, v.Validate(req))

	req.Status = "pending"
	assert.Contains(t, fieldsOf(t, v.Validate(req)), "status")
}

func TestValidator_ObjectID(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Validate(idRequest{ID: primitive.NewObjectID().Hex()}))

	fields := fieldsOf(t, v.Validate(idRequest{ID: "123"}))
	assert.Equal(t, "Invalid ID!", fields["id"])
}
