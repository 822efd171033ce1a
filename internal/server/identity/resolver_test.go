package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/models"
	"github.com/rcornejom06/authcore/internal/server/repositories/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHasher struct{ err error }

func (h stubHasher) PlaceholderHash() (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "$2a$10$placeholder", nil
}

// faultyStore wraps a real store and fails selected calls.
type faultyStore struct {
	Store
	findErr   error
	updateErr error
	createErr error
	creates   int
	updates   int
}

func (s *faultyStore) FindByExternalID(ctx context.Context, id string) (*models.Account, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.Store.FindByExternalID(ctx, id)
}

func (s *faultyStore) Create(ctx context.Context, d models.AccountDraft) (*models.Account, error) {
	s.creates++
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.Store.Create(ctx, d)
}

func (s *faultyStore) Update(ctx context.Context, id string, p models.AccountPatch) (*models.Account, error) {
	s.updates++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.Store.Update(ctx, id, p)
}

func newResolver() (*Resolver, *faultyStore, *accounts.MemoryRepository) {
	mem := accounts.NewMemoryRepository()
	store := &faultyStore{Store: mem}
	return NewResolver(store, stubHasher{}), store, mem
}

func profile() Profile {
	return Profile{ExternalID: "g-1", Email: "a@x.com", EmailVerified: true, DisplayName: "A"}
}

func TestDecide(t *testing.T) {
	a := &models.Account{ID: "1"}
	b := &models.Account{ID: "2"}

	assert.Equal(t, ActionMatch, Decide(a, b))
	assert.Equal(t, ActionMatch, Decide(a, nil))
	assert.Equal(t, ActionLink, Decide(nil, b))
	assert.Equal(t, ActionCreate, Decide(nil, nil))
}

func TestResolve_CreatesWhenNoAccount(t *testing.T) {
	r, _, mem := newResolver()

	got, outcome, err := r.Resolve(context.Background(), profile())
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.Equal(t, "a@x.com", got.Email)
	require.NotNil(t, got.ExternalID)
	assert.Equal(t, "g-1", *got.ExternalID)
	assert.True(t, got.Active)

	stored, err := mem.FindByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestResolve_LinksExistingEmail(t *testing.T) {
	r, _, mem := newResolver()
	ctx := context.Background()
	existing, err := mem.Create(ctx, models.AccountDraft{DisplayName: "Ana", Email: "a@x.com", PasswordHash: "h", Active: true})
	require.NoError(t, err)

	got, outcome, err := r.Resolve(ctx, profile())
	require.NoError(t, err)
	assert.Equal(t, Linked, outcome)
	assert.Equal(t, existing.ID, got.ID)
	assert.Equal(t, "Ana", got.DisplayName)

	stored, err := mem.FindByExternalID(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, stored.ID)
	assert.Equal(t, "h", stored.PasswordHash)
}

func TestResolve_MatchDoesNotOverwriteEmail(t *testing.T) {
	r, store, mem := newResolver()
	ctx := context.Background()
	ext := "g-1"
	existing, err := mem.Create(ctx, models.AccountDraft{Email: "a@x.com", PasswordHash: "h", ExternalID: &ext, Active: true})
	require.NoError(t, err)

	p := profile()
	p.Email = "new@x.com"
	got, outcome, err := r.Resolve(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, Matched, outcome)
	assert.Equal(t, existing.ID, got.ID)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Zero(t, store.updates)
	assert.Zero(t, store.creates)
}

func TestResolve_ExternalIDTakesPrecedenceOverEmail(t *testing.T) {
	r, _, mem := newResolver()
	ctx := context.Background()
	ext := "g-1"
	linked, err := mem.Create(ctx, models.AccountDraft{Email: "linked@x.com", PasswordHash: "h", ExternalID: &ext})
	require.NoError(t, err)
	_, err = mem.Create(ctx, models.AccountDraft{Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	got, outcome, err := r.Resolve(ctx, profile())
	require.NoError(t, err)
	assert.Equal(t, Matched, outcome)
	assert.Equal(t, linked.ID, got.ID)
}

func TestResolve_Idempotent(t *testing.T) {
	r, store, _ := newResolver()
	ctx := context.Background()

	first, o1, err := r.Resolve(ctx, profile())
	require.NoError(t, err)
	second, o2, err := r.Resolve(ctx, profile())
	require.NoError(t, err)

	assert.Equal(t, Created, o1)
	assert.Equal(t, Matched, o2)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.creates)
}

func TestResolve_NormalizesEmail(t *testing.T) {
	r, _, mem := newResolver()
	ctx := context.Background()
	existing, err := mem.Create(ctx, models.AccountDraft{Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	p := profile()
	p.Email = "  A@X.COM "
	got, outcome, err := r.Resolve(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, Linked, outcome)
	assert.Equal(t, existing.ID, got.ID)
}

func TestResolve_RejectsIncompleteOrUnverifiedProfiles(t *testing.T) {
	r, store, _ := newResolver()
	ctx := context.Background()

	p := profile()
	p.ExternalID = ""
	_, _, err := r.Resolve(ctx, p)
	assert.ErrorIs(t, err, common.ErrMissingFields)

	p = profile()
	p.Email = " "
	_, _, err = r.Resolve(ctx, p)
	assert.ErrorIs(t, err, common.ErrMissingFields)

	p = profile()
	p.EmailVerified = false
	_, _, err = r.Resolve(ctx, p)
	assert.ErrorIs(t, err, common.ErrEmailNotVerified)

	assert.Zero(t, store.creates)
	assert.Zero(t, store.updates)
}

func TestResolve_LookupFailure(t *testing.T) {
	r, store, _ := newResolver()
	store.findErr = errors.New("connection reset")

	_, _, err := r.Resolve(context.Background(), profile())
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.Zero(t, store.creates)
}

func TestResolve_PersistFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("create unavailable", func(t *testing.T) {
		r, store, _ := newResolver()
		store.createErr = errors.New("disk full")
		_, _, err := r.Resolve(ctx, profile())
		assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	})

	t.Run("create conflict", func(t *testing.T) {
		r, store, _ := newResolver()
		store.createErr = fmt.Errorf("create account: %w", common.ErrConflict)
		_, _, err := r.Resolve(ctx, profile())
		assert.ErrorIs(t, err, common.ErrConflict)
		assert.NotErrorIs(t, err, common.ErrStoreUnavailable)
	})

	t.Run("link unavailable", func(t *testing.T) {
		r, store, mem := newResolver()
		_, err := mem.Create(ctx, models.AccountDraft{Email: "a@x.com", PasswordHash: "h"})
		require.NoError(t, err)
		store.updateErr = errors.New("timeout")
		_, _, err = r.Resolve(ctx, profile())
		assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	})

	t.Run("link target deleted", func(t *testing.T) {
		r, store, mem := newResolver()
		_, err := mem.Create(ctx, models.AccountDraft{Email: "a@x.com", PasswordHash: "h"})
		require.NoError(t, err)
		store.updateErr = fmt.Errorf("update account: %w", common.ErrNotFound)
		_, _, err = r.Resolve(ctx, profile())
		assert.ErrorIs(t, err, common.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, common.ErrNotFound)
		assert.Equal(t, common.KindStoreUnavailable, common.Classify(err))
	})

	t.Run("placeholder hash fails", func(t *testing.T) {
		mem := accounts.NewMemoryRepository()
		r := NewResolver(mem, stubHasher{err: common.ErrInternal})
		_, _, err := r.Resolve(ctx, profile())
		assert.ErrorIs(t, err, common.ErrInternal)
	})
}
