package repomanager

import (
	"context"
	"database/sql"

	"github.com/rcornejom06/authcore/internal/dbx"
	"github.com/rcornejom06/authcore/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories for one storage backend.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
