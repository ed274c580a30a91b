package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/mlluizdevtech/linkhub/internal/store"
)

const (
	MinNameLength     = 3
	MaxNameLength     = 255
	MinPasswordLength = 6
	MaxEmailLength    = 255
)

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		return store.Invalid("name", "name is required")
	case n < MinNameLength:
		return store.Invalid("name", "name must be at least 3 characters")
	case n > MaxNameLength:
		return store.Invalid("name", "name must be at most 255 characters")
	}
	return nil
}

// validateEmail accepts a bare addr-spec only; display-name forms such as
// "Ana <ana@example.com>", quoted local parts, and domains that are not a
// dotted host name ("a@x", "a@[127.0.0.1]") are rejected.
func validateEmail(email string) error {
	if email == "" {
		return store.Invalid("email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return store.Invalid("email", "email must be at most 255 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return store.Invalid("email", "email must be a valid email address")
	}
	at := strings.LastIndexByte(email, '@')
	if strings.HasPrefix(email, `"`) || !validDomain(email[at+1:]) {
		return store.Invalid("email", "email must be a valid email address")
	}
	return nil
}

// validDomain requires at least two dot-separated labels of letters, digits
// and inner hyphens, ending in an alphabetic TLD of two or more letters.
func validDomain(domain string) bool {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" || l[0] == '-' || l[len(l)-1] == '-' {
			return false
		}
		for _, c := range l {
			if !isASCIILetter(c) && (c < '0' || c > '9') && c != '-' {
				return false
			}
		}
	}
	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return false
	}
	for _, c := range tld {
		if !isASCIILetter(c) {
			return false
		}
	}
	return true
}

func isASCIILetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return store.Invalid("password", "password is required")
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return store.Invalid("password", "password must be at least 6 characters")
	case len(password) > MaxPasswordBytes:
		return store.Invalid("password", "password must be at most 72 bytes")
	}
	return nil
}

// ValidateRegistration checks a sign-up request in field order and returns
// the first violation as a *store.ValidationError. email must already be
// normalised.
func ValidateRegistration(name, email, password string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	return validatePassword(password)
}

// ValidateLogin checks the shape of a login request only; password rules
// are not re-applied so older accounts can still log in.
func ValidateLogin(email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return store.Invalid("password", "password is required")
	}
	return nil
}
