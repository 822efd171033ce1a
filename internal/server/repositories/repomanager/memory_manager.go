package repomanager

import (
	"context"
	"database/sql"

	"github.com/rcornejom06/authcore/internal/dbx"
	"github.com/rcornejom06/authcore/internal/server/repositories/accounts"
)

// MemoryRepositoryManager serves a single process-local accounts store. The
// db handle passed to Accounts is ignored.
type MemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{accounts: accounts.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Accounts(_ dbx.DBTX) accounts.Repository {
	return m.accounts
}

// RunMigrations is a no-op: the in-memory store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}
