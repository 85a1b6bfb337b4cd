// Package upstream defines the error taxonomy shared by the provider
// clients and the HTTP layer, so handlers can map failures to status
// codes without inspecting provider-specific details.
package upstream

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials indicates provider credentials were never
// configured. Expected in degraded deployments; never retried.
var ErrMissingCredentials = errors.New("provider credentials not configured")

// AuthError indicates the credential exchange was rejected or an issued
// token was refused by the provider.
type AuthError struct {
	Status int    // upstream HTTP status, 0 when the response never arrived
	Body   string // upstream body, kept for logs and never echoed to callers
}

func (e *AuthError) Error() string {
	if e.Status == 0 {
		return "upstream auth failed"
	}
	return fmt.Sprintf("upstream auth failed: status %d", e.Status)
}

// ProtocolError indicates the provider returned a non-success status or
// a payload shape the client does not recognize.
type ProtocolError struct {
	Provider string
	Status   int // upstream HTTP status
	Code     int // provider-level response code (trivia), 0 otherwise
}

func (e *ProtocolError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: provider rejected request (response_code %d)", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s: unexpected upstream response (status %d)", e.Provider, e.Status)
}

// TimeoutError indicates an upstream call exceeded its deadline.
type TimeoutError struct {
	Provider string
	Cause    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: upstream call timed out", e.Provider)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// ValidationError indicates a caller-supplied parameter was outside the
// allowed range. Raised before any upstream call is attempted.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
