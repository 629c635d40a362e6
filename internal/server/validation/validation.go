// Package validation enforces the registration input policy: email
// normalization and syntax, password strength and profile name limits.
package validation

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/accountd/internal/common"
)

const (
	// MinPasswordLength is counted in characters (runes), not bytes.
	MinPasswordLength = 6
	// bcrypt ignores input past this many bytes.
	MaxPasswordBytes = 72
	MaxNameLength    = 100
	// MaxEmailBytes is the SMTP path limit; the accounts.email column is wider.
	MaxEmailBytes = 254
)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Register, login, admin create and update all go through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks an already normalized email and a plain-text
// password. Rules run in a fixed order and the first failure is returned:
// email syntax, minimum length, uppercase, lowercase, maximum length.
func ValidateCredentials(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidateEmail accepts a bare local@domain address of at most
// MaxEmailBytes bytes.
func ValidateEmail(email string) error {
	if !isValidEmail(email) {
		return common.NewValidationError(common.ReasonInvalidEmail, "email address is not valid")
	}
	return nil
}

func isValidEmail(email string) bool {
	if email == "" || len(email) > MaxEmailBytes || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// ValidatePassword applies the strength rules to a plain-text password.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return common.NewValidationError(common.ReasonPasswordTooShort, "password must be at least 6 characters long")
	}

	var hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	if !hasUpper {
		return common.NewValidationError(common.ReasonPasswordMissingUppercase, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		return common.NewValidationError(common.ReasonPasswordMissingLowercase, "password must contain at least one lowercase letter")
	}

	if len(password) > MaxPasswordBytes {
		return common.NewValidationError(common.ReasonPasswordTooLong, "password must be at most 72 bytes long")
	}
	return nil
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateNames checks trimmed first and last names.
func ValidateNames(firstName, lastName string) error {
	if err := validateName(firstName, common.ReasonFirstNameRequired, common.ReasonFirstNameTooLong, "first name"); err != nil {
		return err
	}
	return validateName(lastName, common.ReasonLastNameRequired, common.ReasonLastNameTooLong, "last name")
}

func validateName(value string, required, tooLong common.Reason, label string) error {
	if value == "" {
		return common.NewValidationError(required, label+" is required")
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return common.NewValidationError(tooLong, label+" must be at most 100 characters long")
	}
	return nil
}
