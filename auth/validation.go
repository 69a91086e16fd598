package auth

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries every failed registration rule as a user-facing
// message. It is surfaced verbatim and is never fatal.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// RegistrationInput is the raw registration form payload.
type RegistrationInput struct {
	Email           string `validate:"required,email"`
	Username        string `validate:"required,min=3,max=20,username_chars"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}

// registrationMessage maps a failed field/tag pair to the exact message shown
// to the user.
func registrationMessage(field, tag string) string {
	switch field + "." + tag {
	case "Email.required":
		return "Email is required"
	case "Email.email":
		return "Please enter a valid email address"
	case "Username.required":
		return "Username is required"
	case "Username.min":
		return "Username must be at least 3 characters"
	case "Username.max":
		return "Username must be less than 20 characters"
	case "Username.username_chars":
		return "Username can only contain letters, numbers, and underscores"
	case "Password.required":
		return "Password is required"
	case "ConfirmPassword.required":
		return "Please confirm your password"
	case "ConfirmPassword.eqfield":
		return "Passwords do not match"
	}
	return "Invalid input"
}

// passwordRuleErrors checks the password composition rules. An empty password
// is reported separately as "required".
func passwordRuleErrors(password string) []string {
	var msgs []string
	if len(password) < 6 {
		msgs = append(msgs, "Password must be at least 6 characters")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		msgs = append(msgs, "Password must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		msgs = append(msgs, "Password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		msgs = append(msgs, "Password must contain at least one number")
	}
	return msgs
}
