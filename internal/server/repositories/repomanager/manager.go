package repomanager

import (
	"context"
	"database/sql"

	"github.com/licitacrm/licitacrm/internal/dbx"
	"github.com/licitacrm/licitacrm/internal/server/repositories/refreshtokens"
	"github.com/licitacrm/licitacrm/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
