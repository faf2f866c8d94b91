package users

import "strings"

const (
	minPasswordLength = 8
	passwordSymbols   = "!@#$%^&*(),.?\":{}|<>[]/\\`~;=_+-"
)

// ValidatePassword enforces the password policy: at least 8 characters, one
// uppercase letter and one symbol
func ValidatePassword(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return &WeakPasswordError{Reason: "must be at least 8 characters long"}
	}
	if !strings.ContainsFunc(password, isASCIIUpper) {
		return &WeakPasswordError{Reason: "must contain at least one uppercase letter"}
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		return &WeakPasswordError{Reason: "must include at least one symbol"}
	}
	return nil
}

func isASCIIUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
