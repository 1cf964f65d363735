package models

import "github.com/licitacrm/licitacrm/internal/common"

// Role is the closed set of user roles.
type Role string

const (
	RoleUser  Role = common.RoleUser
	RoleAdmin Role = common.RoleAdmin
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the read-only view of a user row. PasswordHash never leaves the
// server.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	AvatarURL    *string
}

// Identity is the subject carried by access tokens.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// Identity returns the token subject for u.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// Profile is the public part of a user returned to clients.
type Profile struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Role      Role    `json:"role"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Role: u.Role, AvatarURL: u.AvatarURL}
}
