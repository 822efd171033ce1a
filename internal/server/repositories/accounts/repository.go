// Package accounts is the account store consumed by the authentication core.
// Implementations enforce email and external-ID uniqueness themselves and
// report failures as common.ErrNotFound, common.ErrConflict or
// common.ErrStoreUnavailable.
package accounts

import (
	"context"

	"github.com/rcornejom06/authcore/internal/server/models"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	// FindByEmail expects an already normalized email.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.Account, error)
	Create(ctx context.Context, draft models.AccountDraft) (*models.Account, error)
	Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error)
	Delete(ctx context.Context, id string) (*models.Account, error)
	// List returns every account, newest first.
	List(ctx context.Context) ([]*models.Account, error)
}
