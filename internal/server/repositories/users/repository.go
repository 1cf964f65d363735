// Package users declares read-only access to the users table, which is owned
// by the broader CRM application.
package users

import (
	"context"

	"github.com/licitacrm/licitacrm/internal/server/models"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
