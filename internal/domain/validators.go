package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// PasswordPolicyError describes why a password failed the strength policy.
// Missing lists every unmet character-class requirement so the API can
// surface them all at once.
type PasswordPolicyError struct {
	MinLength    int
	ActualLength int
	Missing      []string
}

func (e *PasswordPolicyError) Error() string {
	if e.ActualLength < e.MinLength {
		return fmt.Sprintf("password too short: %d characters (minimum: %d)", e.ActualLength, e.MinLength)
	}
	return fmt.Sprintf("password missing requirements: %s", strings.Join(e.Missing, ", "))
}

// ValidatePassword checks password strength: minimum 8 characters with at
// least one uppercase letter, one lowercase letter, one digit and one
// special character.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &PasswordPolicyError{MinLength: MinPasswordLength, ActualLength: len(password)}
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	var missing []string
	if !hasUpper {
		missing = append(missing, "uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "digit")
	}
	if !hasSpecial {
		missing = append(missing, "special character")
	}
	if len(missing) > 0 {
		return &PasswordPolicyError{MinLength: MinPasswordLength, ActualLength: len(password), Missing: missing}
	}
	return nil
}
