package store

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	dErrors "registra/pkg/domain-errors"
)

const minPasswordLen = 6

// checkPasswordPolicy applies the account password rules shared by every
// store implementation. Failures carry the password field so callers can
// surface them per-field.
func checkPasswordPolicy(password string) error {
	if strings.TrimSpace(password) == "" {
		return dErrors.NewField(dErrors.CodeValidation, "password", "password is required")
	}
	if len(password) < minPasswordLen {
		return dErrors.NewField(dErrors.CodeValidation, "password", "password must be at least 6 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return dErrors.NewField(dErrors.CodeValidation, "password", "password must contain letters and digits")
	}
	return nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func verifyPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
