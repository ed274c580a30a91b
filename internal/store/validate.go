package store

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength = 255
	MaxURLLength   = 2048
)

// ValidationError reports the first invalid field of a client request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Invalid builds a *ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ValidateTitle checks that title is non-blank and fits the column.
func ValidateTitle(title string) error {
	t := strings.TrimSpace(title)
	if t == "" {
		return Invalid("title", "title is required")
	}
	if utf8.RuneCountInString(t) > MaxTitleLength {
		return Invalid("title", "title must be at most 255 characters")
	}
	return nil
}

// ValidateURL checks that raw is an absolute http(s) URL with a host.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return Invalid("url", "url is required")
	}
	if len(raw) > MaxURLLength {
		return Invalid("url", "url must be at most 2048 characters")
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Invalid("url", "url must be a valid absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Invalid("url", "url must use http or https")
	}
	return nil
}

// ValidateLink validates a title/url pair, reporting the title first.
func ValidateLink(title, rawURL string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	return ValidateURL(rawURL)
}
