package services

import (
	"errors"
	"unicode"
)

const passwordMinLength = 8

var ErrWeakPassword = errors.New("password must be at least 8 characters with upper, lower and digit")

// ValidatePasswordStrength enforces the account password policy. Length is
// counted in runes so multibyte characters are not penalized.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < passwordMinLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		hasUpper = hasUpper || unicode.IsUpper(char)
		hasLower = hasLower || unicode.IsLower(char)
		hasDigit = hasDigit || unicode.IsDigit(char)
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
