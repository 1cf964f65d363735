package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=8"`
	Note     string `validate:"omitempty,min=2"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		in      credentials
		wantErr string
	}{
		{name: "ok", in: credentials{Email: "a@b.com", Password: "secret"}},
		{name: "missing both", in: credentials{}, wantErr: "email is required; password is required"},
		{name: "bad email", in: credentials{Email: "nope", Password: "x"}, wantErr: "email must be a valid email address"},
		{name: "too long", in: credentials{Email: "a@b.com", Password: "123456789"}, wantErr: "password must be at most 8 characters"},
		{name: "untagged field uses lower name", in: credentials{Email: "a@b.com", Password: "x", Note: "n"}, wantErr: "note must be at least 2 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := NewValidator().Validate("not a struct")
	require.Error(t, err)
}
