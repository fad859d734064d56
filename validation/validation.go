package validation

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minPasswordLength  = 8
	maxEmailLength     = 254
	maxLocalPartLength = 64
)

// emailPattern accepts local-part@domain.tld with the character classes the
// sign-up forms have always enforced: [A-Za-z0-9._-] for the local part and
// [A-Za-z0-9.-] plus a 2-6 letter suffix for the domain.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)

// Result carries the outcome of a single validation check. Message is empty
// exactly when IsValid is true.
type Result struct {
	IsValid bool
	Message string
}

func valid() Result {
	return Result{IsValid: true}
}

func invalid(message string) Result {
	return Result{Message: message}
}

// PasswordStrength checks a candidate password against the strength rules,
// in order: minimum length, uppercase letter, lowercase letter, digit. The
// first violated rule's message is returned.
func PasswordStrength(password string) Result {
	if len(password) < minPasswordLength {
		return invalid("password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		return invalid("password must contain an uppercase letter")
	}
	if !hasLower {
		return invalid("password must contain a lowercase letter")
	}
	if !hasDigit {
		return invalid("password must contain a digit")
	}

	return valid()
}

// EmailFormat checks an email address, in order: non-empty, pattern match,
// total length at most 254, local part at most 64 characters.
func EmailFormat(email string) Result {
	if email == "" {
		return invalid("email is required")
	}
	if !emailPattern.MatchString(email) {
		return invalid("email address is not valid")
	}
	if len(email) > maxEmailLength {
		return invalid("email address is too long")
	}
	local, _, _ := strings.Cut(email, "@")
	if len(local) > maxLocalPartLength {
		return invalid("email local part is too long")
	}

	return valid()
}
