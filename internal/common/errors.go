// Package common defines shared constants and sentinel errors used across
// client and server layers of LicitaCRM. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential check failed. Unknown email and wrong password both end here.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired          = errors.New("token expired")
	ErrRevokedOrUnknownToken = errors.New("refresh token revoked or unknown")

	// Token was valid but its subject no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// Connection or pool failure while talking to the store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsAuthError reports whether err belongs to the user-facing authentication
// taxonomy, i.e. everything that maps to 401 rather than 500.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrRevokedOrUnknownToken) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrorUnauthorized)
}
