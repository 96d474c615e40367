package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sportconnect/pkg/api"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
		errMsg   string
	}{
		{name: "valid username - lowercase", username: "awa", wantErr: false},
		{name: "valid username - email like", username: "awa.diallo@gn", wantErr: false},
		{name: "valid username - accents", username: "mamadou_barry-é", wantErr: false},
		{name: "valid username - single char", username: "a", wantErr: false},
		{name: "empty", username: "", wantErr: true, errMsg: "cannot be empty"},
		{name: "too long", username: strings.Repeat("a", 151), wantErr: true, errMsg: "must not exceed 150"},
		{name: "space", username: "awa diallo", wantErr: true, errMsg: "can only contain"},
		{name: "slash", username: "awa/1", wantErr: true, errMsg: "can only contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.ErrorContains(t, ValidatePassword(""), "cannot be empty")
	assert.ErrorContains(t, ValidatePassword("1234567"), "at least 8 characters")
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, ValidateCredentials("awa", "x"))
	assert.ErrorIs(t, ValidateCredentials("  ", "x"), ErrEmptyCredentials)
	assert.ErrorIs(t, ValidateCredentials("awa", ""), ErrEmptyCredentials)
}

func TestValidateRegistration(t *testing.T) {
	valid := api.RegisterRequest{
		FirstName:       "Awa",
		LastName:        "Diallo",
		Username:        "awa",
		Email:           "awa@example.gn",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	}

	tests := []struct {
		name   string
		mutate func(r *api.RegisterRequest)
		field  string
	}{
		{name: "valid", mutate: func(r *api.RegisterRequest) {}},
		{name: "no email", mutate: func(r *api.RegisterRequest) { r.Email = "" }},
		{name: "mismatch", mutate: func(r *api.RegisterRequest) { r.PasswordConfirm = "other-pass" }, field: "password_confirm"},
		{name: "bad username", mutate: func(r *api.RegisterRequest) { r.Username = "a b" }, field: "username"},
		{name: "bad email", mutate: func(r *api.RegisterRequest) { r.Email = "not-an-email" }, field: "email"},
		{
			name: "short password",
			mutate: func(r *api.RegisterRequest) {
				r.Password = "short"
				r.PasswordConfirm = "short"
			},
			field: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := ValidateRegistration(req)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestValidateRegistration_MismatchFirst(t *testing.T) {
	err := ValidateRegistration(api.RegisterRequest{Password: "a", PasswordConfirm: "b"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Equal(t, "password_confirm: passwords do not match", err.Error())
}

func TestNormalizeRegistration(t *testing.T) {
	req := NormalizeRegistration(api.RegisterRequest{
		FirstName: " Awa ",
		Username:  " awa\t",
		Email:     "  ",
		Password:  " keep ",
	})
	assert.Equal(t, "Awa", req.FirstName)
	assert.Equal(t, "awa", req.Username)
	assert.Equal(t, "", req.Email)
	assert.Equal(t, " keep ", req.Password)
}
