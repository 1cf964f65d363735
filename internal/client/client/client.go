// Package client talks to the LicitaCRM auth server over HTTP. Session
// cookies are kept in a cookie jar, so the client behaves like a browser:
// the server sets and clears access_token and refresh_token, and the client
// just sends them back.
//
// Errors are exposed as sentinels for errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrBadRequest and ErrServer.
package client

import "context"

// Profile is the public user record returned by the server.
type Profile struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type Client interface {
	Login(ctx context.Context, email string, password []byte) (*Profile, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*Profile, error)
	Verify(ctx context.Context) (*Profile, error)
	// Session calls the protected probe. On 401 it refreshes once and retries.
	Session(ctx context.Context) (*Profile, error)
	Ping(ctx context.Context) error
}
