package dirreg

import (
	"errors"

	coreerrors "github.com/sufield/dirreg/internal/core/errors"
)

// Typed failure inspection. Every error the client returns is one of
// these categories or a transport/serialization error wrapping the
// underlying cause; none are fatal to the process.

// IsMalformedIdentity reports whether err is a container decode failure.
func IsMalformedIdentity(err error) bool {
	var target *coreerrors.MalformedIdentityError
	return errors.As(err, &target)
}

// IsUnsupportedKeyShape reports whether err is a container encode
// failure caused by key material that does not fit the fixed layout.
func IsUnsupportedKeyShape(err error) bool {
	var target *coreerrors.UnsupportedKeyShapeError
	return errors.As(err, &target)
}

// IsValidationExpired reports whether the directory rejected the
// validation data as stale. The caller must fetch fresh validation data
// before retrying.
func IsValidationExpired(err error) bool {
	var target *coreerrors.ValidationExpiredError
	return errors.As(err, &target)
}

// IsRegistrationRejected reports whether the directory returned a
// non-zero status other than validation expiry.
func IsRegistrationRejected(err error) bool {
	var target *coreerrors.RegistrationRejectedError
	return errors.As(err, &target)
}

// IsMalformedResponse reports whether the directory's response was
// structurally invalid.
func IsMalformedResponse(err error) bool {
	var target *coreerrors.MalformedResponseError
	return errors.As(err, &target)
}

// RejectionStatus extracts the directory status code from a rejection or
// expiry error. The second return is false for other errors.
func RejectionStatus(err error) (int, bool) {
	var rejected *coreerrors.RegistrationRejectedError
	if errors.As(err, &rejected) {
		return rejected.Status, true
	}
	var expired *coreerrors.ValidationExpiredError
	if errors.As(err, &expired) {
		return expired.Status, true
	}
	return 0, false
}

// RawResponse extracts the raw response body retained for diagnostics
// from a rejection or malformed-response error.
func RawResponse(err error) ([]byte, bool) {
	var rejected *coreerrors.RegistrationRejectedError
	if errors.As(err, &rejected) {
		return rejected.Raw, true
	}
	var malformed *coreerrors.MalformedResponseError
	if errors.As(err, &malformed) {
		return malformed.Raw, true
	}
	return nil, false
}
