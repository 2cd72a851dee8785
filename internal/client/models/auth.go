package models

import (
	"net/mail"
	"strings"
)

// MinPasswordLength is enforced before a registration request is sent.
const MinPasswordLength = 6

// LoginRequest is posted to /Auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by /Auth/login.
type LoginResponse struct {
	UserID   string `json:"userId"`
	Token    string `json:"token"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

// RegisterRequest is posted to /Auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
}

// RegisterForm is what the registration view collects.
type RegisterForm struct {
	RegisterRequest
	ConfirmPassword string
}

// ValidationError is a client-side check that failed before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the form in the order the registration view reports
// problems: required fields, email shape, password match, password length.
func (f RegisterForm) Validate() error {
	required := []struct {
		field, value string
	}{
		{"firstName", f.FirstName},
		{"lastName", f.LastName},
		{"userName", f.UserName},
		{"email", f.Email},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: r.field + " is required"}
		}
	}

	if _, err := mail.ParseAddress(f.Email); err != nil {
		return &ValidationError{Field: "email", Message: "Email address is invalid"}
	}

	if f.Password != f.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}

	if len(f.Password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters long"}
	}

	return nil
}
