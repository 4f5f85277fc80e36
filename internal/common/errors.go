// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Request validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// Auth errors (invalid or malformed access token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Validation path errors. The messages are the denial reasons shown to the
// admin after a scan and stored in the scan log.
var (
	ErrInvalidFormat       = errors.New("invalid format")
	ErrIntegrity           = errors.New("integrity check failed")
	ErrDecrypt             = errors.New("decryption failed")
	ErrMalformedClaim      = errors.New("malformed claim")
	ErrExpiredToken        = errors.New("expired token")
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotVerified  = errors.New("account not verified")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrSupersededToken     = errors.New("superseded token")
)

// Issuance path errors, surfaced to the holder.
var (
	ErrIneligible = errors.New("cannot generate access code")
)

var denialReasons = []error{
	ErrInvalidFormat,
	ErrIntegrity,
	ErrDecrypt,
	ErrMalformedClaim,
	ErrExpiredToken,
	ErrUserNotFound,
	ErrAccountNotVerified,
	ErrSubscriptionExpired,
	ErrSupersededToken,
	ErrServiceUnavailable,
}

// DenialReason maps err to the human-readable reason of the first taxonomy
// error it wraps. Errors outside the taxonomy collapse to "service unavailable"
// so that an unexpected failure never reads as a verdict about the holder.
func DenialReason(err error) string {
	for _, e := range denialReasons {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	return ErrServiceUnavailable.Error()
}
