package llm

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"
)

// ErrorType represents the classification of a provider error for retry
// purposes
type ErrorType int

const (
	// ErrorTypeOverloaded indicates a transient provider-overload error
	// that a retry can absorb
	ErrorTypeOverloaded ErrorType = iota
	// ErrorTypeNonRetryable indicates a permanent error that a retry
	// cannot fix
	ErrorTypeNonRetryable
	// ErrorTypeUnknown indicates an unclassifiable error (conservative:
	// not retried)
	ErrorTypeUnknown
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeOverloaded:
		return "Overloaded"
	case ErrorTypeNonRetryable:
		return "NonRetryable"
	default:
		return "Unknown"
	}
}

// HTTPStatusError is an interface for errors that carry an HTTP status
// code. Checked before falling back to substring matching.
type HTTPStatusError interface {
	error
	HTTPStatusCode() int
}

// overloadSignatures are substrings found in provider-overload error
// messages. Substring matching is a fallback for clients that expose no
// structured status; it can misclassify and is a known approximation.
var overloadSignatures = []string{
	"503",
	"429",
	"unavailable",
	"overloaded",
	"resource exhausted",
	"resource_exhausted",
	"rate limit",
	"too many requests",
}

// ClassifyError determines whether an error is a transient provider
// overload worth retrying. Typed status codes are checked first; the
// error text is matched against known overload signatures as a fallback.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeNonRetryable
	}

	// User cancellation is never retried
	if errors.Is(err, context.Canceled) {
		return ErrorTypeNonRetryable
	}

	if statusErr, ok := err.(HTTPStatusError); ok {
		return classifyHTTPStatus(statusErr.HTTPStatusCode())
	}

	type httpError interface {
		error
		StatusCode() int
	}
	if httpErr, ok := err.(httpError); ok {
		return classifyHTTPStatus(httpErr.StatusCode())
	}

	errMsg := strings.ToLower(err.Error())
	for _, sig := range overloadSignatures {
		if strings.Contains(errMsg, sig) {
			return ErrorTypeOverloaded
		}
	}

	return ErrorTypeUnknown
}

// classifyHTTPStatus classifies HTTP status codes
func classifyHTTPStatus(statusCode int) ErrorType {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable,
		http.StatusBadGateway, http.StatusGatewayTimeout:
		return ErrorTypeOverloaded
	default:
		if statusCode >= 500 {
			return ErrorTypeOverloaded
		}
		if statusCode >= 400 {
			return ErrorTypeNonRetryable
		}
		return ErrorTypeUnknown
	}
}

// CalculateBackoff returns the wait before retry number attempt (0-based)
// using exponential backoff: min(base * 2^attempt, max). With the default
// base of 4 seconds the waits are 4s, 8s, 16s.
func CalculateBackoff(attempt int, base, max float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	backoff := base * math.Pow(2, float64(attempt))
	if max > 0 && backoff > max {
		backoff = max
	}

	return time.Duration(backoff * float64(time.Second))
}

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	MaxRetries int     // Maximum number of retries after the first attempt
	BaseDelay  float64 // Base backoff delay in seconds
	BackoffMax float64 // Maximum backoff delay in seconds (0 = uncapped)
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  4.0,
		BackoffMax: 60.0,
	}
}

// Validate validates the retry configuration
func (c *RetryConfig) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("max_retries must be non-negative")
	}
	if c.BaseDelay < 0 {
		return errors.New("base_delay must be non-negative")
	}
	if c.BackoffMax != 0 && c.BackoffMax < c.BaseDelay {
		return errors.New("backoff_max must be greater than or equal to base_delay")
	}
	return nil
}
