package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is wrapped by every login failure.
	ErrAuth = errors.New("authentication failed")
	// ErrUnsupportedOperation is returned by platforms that cannot list challenges.
	ErrUnsupportedOperation = errors.New("operation not supported by this platform")
)

// FetchError reports a transport failure or a non-200 response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: request end with %d status", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a mandatory field missing from a page or API answer.
type ParseError struct {
	URL   string
	Field string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s not found", e.URL, e.Field)
}

// AuthError wraps ErrAuth with a reason.
func AuthError(format string, elem ...any) error {
	return fmt.Errorf("%w: %s", ErrAuth, fmt.Sprintf(format, elem...))
}

// Unsupported wraps ErrUnsupportedOperation with the platform and operation.
func Unsupported(platform string, operation string) error {
	return fmt.Errorf("%s: %s: %w", platform, operation, ErrUnsupportedOperation)
}
