package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegistrationOK(t *testing.T) {
	f := ValidateRegistration(RegisterInput{
		Username:  "jonas",
		Email:     "jonas@example.com",
		Password:  "verysecret",
		Password2: "verysecret",
	})
	assert.Nil(t, f)
}

func TestValidateRegistrationShortPassword(t *testing.T) {
	f := ValidateRegistration(RegisterInput{
		Username:  "jonas",
		Email:     "jonas@example.com",
		Password:  "short",
		Password2: "short",
	})
	assert.Contains(t, f, "password")
	assert.NotContains(t, f, "username")
}

func TestValidateRegistrationMismatch(t *testing.T) {
	f := ValidateRegistration(RegisterInput{
		Username:  "jonas",
		Email:     "jonas@example.com",
		Password:  "verysecret",
		Password2: "different1",
	})
	assert.Contains(t, f, "password2")
}

func TestValidateRegistrationCollectsAllFields(t *testing.T) {
	f := ValidateRegistration(RegisterInput{})
	assert.Contains(t, f, "username")
	assert.Contains(t, f, "email")
	assert.Contains(t, f, "password")
}

func TestValidateProfile(t *testing.T) {
	f := ValidateProfile(ProfileInput{Email: "not-an-email", FirstName: "Jonas", LastName: "P"})
	assert.Contains(t, f, "email")

	f = ValidateProfile(ProfileInput{Email: "jonas@example.com", FirstName: "Jonas", LastName: "P"})
	assert.Nil(t, f)
}
