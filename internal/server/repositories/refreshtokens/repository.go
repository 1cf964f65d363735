// Package refreshtokens declares the server-side repository contract for
// the persisted refresh-token sessions.
package refreshtokens

import (
	"context"
	"time"

	"github.com/licitacrm/licitacrm/internal/server/models"
)

// Repository defines operations for storing, looking up and revoking refresh tokens.
type Repository interface {
	// Create stores a new row. Rows are never deduplicated; a user may hold
	// several sessions at once.
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindActive returns the row matching both token and userID, or
	// common.ErrorNotFound. Callers check IsRevoked and ExpiresAt.
	FindActive(ctx context.Context, token, userID string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token string. Deleting a non-existent
	// token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes rows that expired at or before now and reports
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
