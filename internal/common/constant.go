// Package common contains shared constants and sentinel errors used across
// LicitaCRM components.
package common

// Cookie names carrying the session tokens. Both are HttpOnly and set on
// path "/".
const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"
)

// Role values accepted on user rows.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
