// Package errors defines the typed failure modes of the identity codec
// and the registration protocol.
package errors

import "fmt"

// MalformedIdentityError reports an identity container whose bytes failed
// a tag or length check during decode. No partial identity is ever
// returned alongside it.
type MalformedIdentityError struct {
	Field   string
	Offset  int
	Message string
}

func (e *MalformedIdentityError) Error() string {
	return fmt.Sprintf("malformed identity container: %s at offset %d: %s", e.Field, e.Offset, e.Message)
}

// UnsupportedKeyShapeError reports a key that cannot be represented in the
// fixed-width container on encode.
type UnsupportedKeyShapeError struct {
	Reason string
}

func (e *UnsupportedKeyShapeError) Error() string {
	return "unsupported key shape: " + e.Reason
}

// ValidationExpiredError indicates the directory rejected the validation
// data as stale. The caller must obtain fresh validation data and retry
// with a new request; retrying with the same data cannot succeed.
type ValidationExpiredError struct {
	Status int
}

func (e *ValidationExpiredError) Error() string {
	return fmt.Sprintf("validation data expired (status %d)", e.Status)
}

// RegistrationRejectedError indicates the directory returned a non-zero
// status other than validation expiry. Raw holds the full response body
// for diagnostics; the cause is unknown to this layer and the rejection
// is not retried automatically.
type RegistrationRejectedError struct {
	Status int
	Raw    []byte
}

func (e *RegistrationRejectedError) Error() string {
	return fmt.Sprintf("directory rejected registration with status %d", e.Status)
}

// MalformedResponseError indicates a structurally invalid registration
// response: an undecodable body, or a response missing the services,
// users, or cert fields the protocol requires. Raw holds the full
// response body for diagnostics.
type MalformedResponseError struct {
	Reason string
	Raw    []byte
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed registration response: %s: %v", e.Reason, e.Err)
	}
	return "malformed registration response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ValidationError represents input validation errors on caller-supplied
// parameters and configuration.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}
