package accounts

import (
	"fmt"
	"strings"
)

// Fields carries one message per invalid field. A nil/empty Fields means
// the input passed.
type Fields map[string]string

func (f Fields) Error() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v))
	}
	return strings.Join(parts, "; ")
}

const minPasswordLen = 8

func ValidateRegistration(in RegisterInput) Fields {
	f := Fields{}
	if strings.TrimSpace(in.Username) == "" {
		f["username"] = "username is required"
	}
	if !looksLikeEmail(in.Email) {
		f["email"] = "a valid email is required"
	}
	if len(in.Password) < minPasswordLen {
		f["password"] = fmt.Sprintf("password needs minimum %d symbols", minPasswordLen)
	}
	if in.Password != in.Password2 {
		f["password2"] = "passwords do not match"
	}
	if len(f) == 0 {
		return nil
	}
	return f
}

func ValidateProfile(in ProfileInput) Fields {
	f := Fields{}
	if !looksLikeEmail(in.Email) {
		f["email"] = "a valid email is required"
	}
	if strings.TrimSpace(in.FirstName) == "" {
		f["first_name"] = "first name is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		f["last_name"] = "last name is required"
	}
	if len(f) == 0 {
		return nil
	}
	return f
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}
