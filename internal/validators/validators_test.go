package validators_test

import (
	"testing"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/validators"
	"github.com/stretchr/testify/assert"
)

func signupRequest(password string) *models.SignupRequest {
	return &models.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Username: "alice",
		Password: password,
	}
}

func TestValidate_PasswordPolicy(t *testing.T) {
	v := validators.NewValidator()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Password1!", false},
		{"all allowed specials", "aB3!@#$%^&*", false},
		{"no special", "Password11", true},
		{"no digit", "Password!!", true},
		{"no letter", "12345678!", true},
		{"too short", "aB1!", true},
		{"too long", "Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!Aa1", true},
		{"disallowed character", "Password1! ", true},
		{"disallowed unicode", "Pässword1!", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(signupRequest(tt.password))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_SignupFields(t *testing.T) {
	v := validators.NewValidator()

	req := signupRequest("Password1!")
	req.Email = "not-an-email"
	assert.Error(t, v.Validate(req))

	req = signupRequest("Password1!")
	req.Username = "no spaces"
	assert.Error(t, v.Validate(req))

	req = signupRequest("Password1!")
	req.Name = "A"
	assert.Error(t, v.Validate(req))
}

func TestValidate_UpdateProfileOptionalFields(t *testing.T) {
	v := validators.NewValidator()

	// Empty update passes validation; presence is enforced by the handler.
	assert.NoError(t, v.Validate(&models.UpdateProfileRequest{}))

	assert.Error(t, v.Validate(&models.UpdateProfileRequest{Link: "not a url"}))
	assert.NoError(t, v.Validate(&models.UpdateProfileRequest{Link: "https://example.com"}))
}
