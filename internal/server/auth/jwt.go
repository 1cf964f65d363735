// Package auth issues and verifies the session tokens and checks password
// hashes.
//
// Tokens are HS256 JWTs. They are integrity-protected, not encrypted, so
// claims never carry secrets.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/licitacrm/licitacrm/internal/common"
	"github.com/licitacrm/licitacrm/internal/server/models"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	TokenType string      `json:"typ"`
}

// Identity returns the subject encoded in the claims.
func (c *AccessClaims) Identity() models.Identity {
	return models.Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// RefreshClaims is the payload of a refresh token. The JWT ID makes every
// issued token string unique even for logins within the same second.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"userId"`
	TokenType string `json:"typ"`
}

// Codec signs and verifies access and refresh tokens.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewCodec builds a Codec. The two secrets may be equal.
func NewCodec(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// WithClock returns a copy of c that reads time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// AccessTTL is the lifetime of issued access tokens.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL is the lifetime of issued refresh tokens.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs an access token for id and returns it with its expiry.
func (c *Codec) IssueAccess(id models.Identity) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.accessTTL)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:    id.UserID,
		Email:     id.Email,
		Role:      id.Role,
		TokenType: tokenTypeAccess,
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.accessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return s, exp, nil
}

// IssueRefresh signs a refresh token for userID and returns it with its expiry.
func (c *Codec) IssueRefresh(userID string) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.refreshTTL)

	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:    userID,
		TokenType: tokenTypeRefresh,
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return s, exp, nil
}

// VerifyAccess checks signature, expiry and token type of an access token.
// It returns common.ErrTokenExpired for a genuine but expired token and
// common.ErrInvalidToken for anything else.
func (c *Codec) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.parse(token, claims, c.accessSecret); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefresh is VerifyAccess for refresh tokens.
func (c *Codec) VerifyRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.parse(token, claims, c.refreshSecret); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) parse(token string, claims jwt.Claims, secret []byte) error {
	if token == "" {
		return common.ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		// Signature is checked before claims, so only a genuine token
		// reaches the expiry check.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}

	if !parsed.Valid {
		return common.ErrInvalidToken
	}
	return nil
}
