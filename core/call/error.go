package call

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the uniform error for failed API calls. It captures everything
// known about the exchange at the moment of failure: the request that was
// sent, the response that came back (if any), the decoded error payload (if
// the API provided one), and whether the caller may safely retry.
//
// Fields are set once at construction and never mutated afterwards.
type Error struct {
	// Message is the human-readable description. For API-reported failures it
	// comes from the provider's error payload; for connectivity failures it is
	// prefixed with "Cannot connect to API: ".
	Message string

	// URL is the request URL.
	URL string

	// RequestBody holds the pre-serialization request values, nil when the
	// request had no body.
	RequestBody any

	// StatusCode is the HTTP status, 0 for network-level failures where no
	// response was received.
	StatusCode int

	// ResponseHeader captures the response headers, nil when no response was
	// received. Retry helpers read Retry-After from here.
	ResponseHeader http.Header

	// ResponseBody is the raw body text, "" when unread or empty.
	ResponseBody string

	// Data holds the decoded structured error payload, nil when the body was
	// empty, malformed, or never decoded.
	Data any

	// Retryable reports whether the failure is considered transient.
	Retryable bool

	// Cause is the wrapped underlying error, exposed via Unwrap.
	Cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err carries an [Error] flagged as retryable.
// It returns false for nil, for plain errors, and for context cancellation.
func IsRetryable(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Retryable
}

// AsError extracts an [Error] from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// statusMessage returns the standard reason phrase for an HTTP status code,
// falling back to the numeric form for codes the standard library does not
// know.
func statusMessage(statusCode int) string {
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP status %d", statusCode)
}
