package lookup

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/webnetes/webnetesctl/internal/urls"
)

// ErrNoMatch means the service answered but had nothing for the query, such
// as a reverse lookup over open sea. Use errors.Is to test for it.
var ErrNoMatch = errors.New("no match")

// ErrorType represents the category of lookup failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (unreachable, reset)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the service did not answer in time
	ErrTypeTimeout
	// ErrTypeDNS indicates the service hostname could not be resolved
	ErrTypeDNS
	// ErrTypeConnectionRefused indicates the service refused the connection
	ErrTypeConnectionRefused
	// ErrTypeHTTP indicates a non-2xx HTTP status
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
	// ErrTypeNoMatch indicates a well-formed answer with no result
	ErrTypeNoMatch
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeNoMatch:
		return "No Match"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// LookupError represents a failed status lookup
type LookupError struct {
	Type       ErrorType // Category of error
	Source     string    // Lookup that failed, e.g. "public_address"
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether another attempt could succeed
}

// Error implements the error interface
func (e *LookupError) Error() string {
	prefix := e.Type.String()
	if e.Source != "" {
		prefix = e.Source + ": " + prefix
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNoMatch) true for no-match lookup errors
func (e *LookupError) Is(target error) bool {
	return target == ErrNoMatch && e.Type == ErrTypeNoMatch
}

// ClassifyNetworkError analyzes a transport error and returns a typed error
func ClassifyNetworkError(err error, source string) *LookupError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &LookupError{
			Type:      ErrTypeTimeout,
			Source:    source,
			Message:   "Request timed out",
			Err:       err,
			Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &LookupError{
			Type:      ErrTypeDNS,
			Source:    source,
			Message:   fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:       err,
			Retryable: dnsErr.IsTemporary,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &LookupError{
				Type:      ErrTypeConnectionRefused,
				Source:    source,
				Message:   "Service refused connection",
				Err:       err,
				Retryable: true,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) || errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &LookupError{
				Type:      ErrTypeNetwork,
				Source:    source,
				Message:   "Network unreachable",
				Err:       err,
				Retryable: true,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err, source)
	}

	return &LookupError{
		Type:      ErrTypeNetwork,
		Source:    source,
		Message:   "Network error occurred",
		Err:       err,
		Retryable: true,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(source, message string, err error) *LookupError {
	classified := ClassifyNetworkError(err, source)
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &LookupError{
		Type:      ErrTypeNetwork,
		Source:    source,
		Message:   message,
		Retryable: true,
	}
}

// NewHTTPError creates an HTTP-level error. Server errors and rate limiting
// are retryable.
func NewHTTPError(source string, statusCode int) *LookupError {
	return &LookupError{
		Type:       ErrTypeHTTP,
		Source:     source,
		Message:    fmt.Sprintf("unexpected status %d %s", statusCode, http.StatusText(statusCode)),
		StatusCode: statusCode,
		Retryable:  statusCode >= 500 || statusCode == http.StatusTooManyRequests,
	}
}

// NewParseError creates a parsing error
func NewParseError(source, message string, err error) *LookupError {
	return &LookupError{
		Type:    ErrTypeParse,
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// NewNoMatchError creates a no-match error
func NewNoMatchError(source, message string) *LookupError {
	return &LookupError{
		Type:    ErrTypeNoMatch,
		Source:  source,
		Message: message,
	}
}

func asLookupError(err error) (*LookupError, bool) {
	var lookupErr *LookupError
	ok := errors.As(err, &lookupErr)
	return lookupErr, ok
}

// IsNetworkError checks if an error is a network error (including timeout,
// connection refused and DNS)
func IsNetworkError(err error) bool {
	if e, ok := asLookupError(err); ok {
		return e.Type == ErrTypeNetwork ||
			e.Type == ErrTypeTimeout ||
			e.Type == ErrTypeConnectionRefused ||
			e.Type == ErrTypeDNS
	}
	return false
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	if e, ok := asLookupError(err); ok {
		return e.Type == ErrTypeHTTP
	}
	return false
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	if e, ok := asLookupError(err); ok {
		return e.Type == ErrTypeParse
	}
	return false
}

// IsNoMatch checks if the lookup found nothing
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	if e, ok := asLookupError(err); ok {
		return e.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// GetTroubleshootingHint returns advice for a lookup failure
func GetTroubleshootingHint(err error) string {
	e, ok := asLookupError(err)
	if !ok {
		return "An unexpected error occurred. If it keeps happening, report it at " + urls.Issues
	}

	switch e.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The lookup service did not respond in time.",
			"Troubleshooting:",
			"  • Check your internet connection",
			"  • Increase status.lookup_timeout in the settings file",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the lookup service hostname.",
			"Troubleshooting:",
			"  • Check your DNS settings",
			"  • Point the endpoint at a reachable service in the settings file",
		}, "\n")

	case ErrTypeConnectionRefused, ErrTypeNetwork:
		return strings.Join([]string{
			"The lookup service could not be reached.",
			"Troubleshooting:",
			"  • Check your internet connection",
			"  • An IPv6-only endpoint needs IPv6 connectivity; try address_source: dns",
		}, "\n")

	case ErrTypeHTTP:
		if e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusForbidden {
			return "The lookup service is rate limiting requests. Wait a minute or configure another endpoint.\n" +
				"Public Nominatim rules: " + urls.NominatimUsagePolicy
		}
		return fmt.Sprintf("The lookup service returned HTTP %d.", e.StatusCode)

	case ErrTypeParse:
		return "The lookup service returned an unexpected response. Check the configured endpoint."

	case ErrTypeNoMatch:
		return "The service had no result for this query."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	e, ok := asLookupError(err)
	if !ok {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeTimeout:
		return "Lookup timed out"
	case ErrTypeConnectionRefused:
		return "Lookup service refused connection"
	case ErrTypeDNS:
		return "Cannot resolve lookup service"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Lookup service error (HTTP %d)", e.StatusCode)
	case ErrTypeParse:
		return "Unexpected lookup response"
	case ErrTypeNoMatch:
		return "No match"
	default:
		return e.Message
	}
}
