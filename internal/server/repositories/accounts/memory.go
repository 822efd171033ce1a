package accounts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Uniqueness of email and
// external ID is enforced under the same lock as the write.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.Account
	byEmail    map[string]string
	byExternal map[string]string
	now        func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*models.Account),
		byEmail:    make(map[string]string),
		byExternal: make(map[string]string),
		now:        time.Now,
	}
}

func clone(a *models.Account) *models.Account {
	c := *a
	if a.ExternalID != nil {
		v := *a.ExternalID
		c.ExternalID = &v
	}
	if a.Age != nil {
		v := *a.Age
		c.Age = &v
	}
	return &c
}

func (r *MemoryRepository) lookup(index map[string]string, key, op string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("find account by id: %w", common.ErrNotFound)
	}
	return clone(a), nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	return r.lookup(r.byEmail, email, "find account by email")
}

func (r *MemoryRepository) FindByExternalID(_ context.Context, externalID string) (*models.Account, error) {
	return r.lookup(r.byExternal, externalID, "find account by external id")
}

func (r *MemoryRepository) Create(_ context.Context, d models.AccountDraft) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[d.Email]; taken {
		return nil, fmt.Errorf("create account: %w (email)", common.ErrConflict)
	}
	if d.ExternalID != nil {
		if _, taken := r.byExternal[*d.ExternalID]; taken {
			return nil, fmt.Errorf("create account: %w (external_id)", common.ErrConflict)
		}
	}

	now := r.now()
	a := &models.Account{
		ID:           uuid.NewString(),
		DisplayName:  d.DisplayName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		ExternalID:   d.ExternalID,
		Age:          d.Age,
		Active:       d.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	a = clone(a)
	r.index(a)
	return clone(a), nil
}

func (r *MemoryRepository) index(a *models.Account) {
	r.byID[a.ID] = a
	r.byEmail[a.Email] = a.ID
	if a.HasExternalID() {
		r.byExternal[*a.ExternalID] = a.ID
	}
}

func (r *MemoryRepository) unindex(a *models.Account) {
	delete(r.byID, a.ID)
	delete(r.byEmail, a.Email)
	if a.HasExternalID() {
		delete(r.byExternal, *a.ExternalID)
	}
}

func (r *MemoryRepository) Update(_ context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("update account: %w", common.ErrNotFound)
	}

	next := clone(current)
	patch.Apply(next)

	if owner, taken := r.byEmail[next.Email]; taken && owner != id {
		return nil, fmt.Errorf("update account: %w (email)", common.ErrConflict)
	}
	if next.HasExternalID() {
		if owner, taken := r.byExternal[*next.ExternalID]; taken && owner != id {
			return nil, fmt.Errorf("update account: %w (external_id)", common.ErrConflict)
		}
	}

	next.UpdatedAt = r.now()
	r.unindex(current)
	r.index(next)
	return clone(next), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("delete account: %w", common.ErrNotFound)
	}
	r.unindex(a)
	return clone(a), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, clone(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
