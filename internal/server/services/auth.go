// Package services contains server-side business logic. This file implements
// AuthService, which verifies credentials, issues access and refresh tokens,
// renews access tokens from stored refresh tokens and revokes sessions.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/licitacrm/licitacrm/internal/common"
	"github.com/licitacrm/licitacrm/internal/dbx"
	"github.com/licitacrm/licitacrm/internal/logging"
	"github.com/licitacrm/licitacrm/internal/server/auth"
	"github.com/licitacrm/licitacrm/internal/server/models"
	"github.com/licitacrm/licitacrm/internal/server/repositories/repomanager"
)

// ConnPool lends database connections for the duration of a callback.
// *dbx.Pool satisfies it.
type ConnPool interface {
	WithConn(ctx context.Context, fn func(ctx context.Context, conn dbx.DBTX) error) error
}

// LoginResult is what a successful login hands to the transport layer.
// RefreshToken is empty when the session row could not be stored; the
// client then holds an access token only and cannot renew it.
type LoginResult struct {
	User             *models.User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RefreshResult carries a freshly minted access token.
type RefreshResult struct {
	User            *models.User
	AccessToken     string
	AccessExpiresAt time.Time
}

// AuthService implements the login, logout, refresh and verify flows.
type AuthService struct {
	pool        ConnPool
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	logger      logging.Logger
	now         func() time.Time
}

// NewAuthService wires an AuthService. logger may be nil.
func NewAuthService(pool ConnPool, m repomanager.RepositoryManager, codec *auth.Codec, logger logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &AuthService{
		pool:        pool,
		repomanager: m,
		codec:       codec,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the clock used for session expiry checks.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// VerifyCredentials returns the user owning email if password matches its
// stored hash. Unknown email and wrong password both yield
// common.ErrInvalidCredentials, and both pay for one hash comparison.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	var user *models.User
	err := s.pool.WithConn(ctx, func(ctx context.Context, conn dbx.DBTX) error {
		u, err := s.repomanager.Users(conn).GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, storeError("user lookup", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn(ctx, "stored password hash is unusable", "user_id", user.ID, "error", err)
		return nil, common.ErrInvalidCredentials
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

// Login verifies credentials and issues an access/refresh pair. Failing to
// persist the refresh token does not fail the login.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	access, accessExp, err := s.codec.IssueAccess(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("%w: issue access token: %v", common.ErrorInternal, err)
	}

	res := &LoginResult{User: user, AccessToken: access, AccessExpiresAt: accessExp}

	refresh, refreshExp, err := s.codec.IssueRefresh(user.ID)
	if err != nil {
		s.logger.Warn(ctx, "refresh token not issued, session will not be renewable", "user_id", user.ID, "error", err)
		return res, nil
	}

	err = s.pool.WithConn(ctx, func(ctx context.Context, conn dbx.DBTX) error {
		return s.repomanager.RefreshTokens(conn).Create(ctx, &models.RefreshToken{
			UserID:    user.ID,
			Token:     refresh,
			ExpiresAt: refreshExp,
		})
	})
	if err != nil {
		s.logger.Warn(ctx, "refresh token not persisted, session will not be renewable", "user_id", user.ID, "error", err)
		return res, nil
	}

	res.RefreshToken = refresh
	res.RefreshExpiresAt = refreshExp
	return res, nil
}

// Logout deletes the stored session for refreshToken. An empty token is a
// no-op. Deleting an unknown token succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	err := s.pool.WithConn(ctx, func(ctx context.Context, conn dbx.DBTX) error {
		return s.repomanager.RefreshTokens(conn).Delete(ctx, refreshToken)
	})
	if err != nil {
		return storeError("delete refresh token", err)
	}
	return nil
}

// Refresh checks refreshToken cryptographically and against the store, then
// mints a new access token for the user's current identity. The refresh
// token itself is left untouched and may be used again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.pool.WithConn(ctx, func(ctx context.Context, conn dbx.DBTX) error {
		row, err := s.repomanager.RefreshTokens(conn).FindActive(ctx, refreshToken, claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrRevokedOrUnknownToken
			}
			return storeError("find refresh token", err)
		}
		if row.IsRevoked {
			return common.ErrRevokedOrUnknownToken
		}
		if row.Expired(s.now()) {
			return common.ErrTokenExpired
		}

		u, err := s.repomanager.Users(conn).GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return storeError("user lookup", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	access, accessExp, err := s.codec.IssueAccess(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("%w: issue access token: %v", common.ErrorInternal, err)
	}

	return &RefreshResult{User: user, AccessToken: access, AccessExpiresAt: accessExp}, nil
}

// Verify checks accessToken and returns the current user row for its
// subject. The session store is not consulted.
func (s *AuthService) Verify(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.pool.WithConn(ctx, func(ctx context.Context, conn dbx.DBTX) error {
		u, err := s.repomanager.Users(conn).GetByID(ctx, claims.UserID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, storeError("user lookup", err)
	}

	return user, nil
}

// PruneExpired removes session rows that are past their expiry.
func (s *AuthService) PruneExpired(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.WithConn(ctx, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		n, err = s.repomanager.RefreshTokens(conn).DeleteExpired(ctx, s.now())
		return err
	})
	if err != nil {
		return 0, storeError("prune refresh tokens", err)
	}
	return n, nil
}

// storeError tags err as a store failure unless it already is one or it is
// part of the auth taxonomy.
func storeError(op string, err error) error {
	if errors.Is(err, common.ErrStoreUnavailable) || common.IsAuthError(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", common.ErrStoreUnavailable, op, err)
}
