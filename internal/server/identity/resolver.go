// Package identity reconciles an external (OAuth/OpenID) identity with local
// accounts: an incoming profile either matches a linked account, links to an
// account with the same email, or creates a new one.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/models"
)

// Profile is the identity reported by an external provider.
type Profile struct {
	ExternalID    string
	Email         string
	EmailVerified bool
	DisplayName   string
}

// Outcome tells the caller which branch Resolve took.
type Outcome string

const (
	Matched Outcome = "matched"
	Linked  Outcome = "linked"
	Created Outcome = "created"
)

// Action is the decision Decide makes from the two lookups.
type Action int

const (
	ActionMatch Action = iota
	ActionLink
	ActionCreate
)

// Decide picks the branch. A match on external ID always wins over a match on
// email.
func Decide(byExternalID, byEmail *models.Account) Action {
	switch {
	case byExternalID != nil:
		return ActionMatch
	case byEmail != nil:
		return ActionLink
	default:
		return ActionCreate
	}
}

// Store is the part of the accounts store the resolver needs.
type Store interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, d models.AccountDraft) (*models.Account, error)
	Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error)
}

// PlaceholderHasher supplies the password hash for accounts created here.
type PlaceholderHasher interface {
	PlaceholderHash() (string, error)
}

// Resolver runs Decide against a Store and applies the result.
type Resolver struct {
	store  Store
	hasher PlaceholderHasher
}

func NewResolver(store Store, hasher PlaceholderHasher) *Resolver {
	return &Resolver{store: store, hasher: hasher}
}

// Resolve returns the local account for p and how it was reached. Running it
// twice with the same profile returns the same account: the second call is a
// Matched.
func (r *Resolver) Resolve(ctx context.Context, p Profile) (*models.PublicAccount, Outcome, error) {
	p.ExternalID = strings.TrimSpace(p.ExternalID)
	p.Email = common.NormalizeEmail(p.Email)
	if p.ExternalID == "" || p.Email == "" {
		return nil, "", common.ErrMissingFields
	}
	if !p.EmailVerified {
		return nil, "", common.ErrEmailNotVerified
	}

	byExternalID, err := r.find(ctx, r.store.FindByExternalID, p.ExternalID)
	if err != nil {
		return nil, "", err
	}

	var byEmail *models.Account
	if byExternalID == nil {
		byEmail, err = r.find(ctx, r.store.FindByEmail, p.Email)
		if err != nil {
			return nil, "", err
		}
	}

	return r.execute(ctx, Decide(byExternalID, byEmail), p, byExternalID, byEmail)
}

func (r *Resolver) execute(ctx context.Context, action Action, p Profile, byExternalID, byEmail *models.Account) (*models.PublicAccount, Outcome, error) {
	switch action {
	case ActionMatch:
		return byExternalID.Public(), Matched, nil

	case ActionLink:
		externalID := p.ExternalID
		linked, err := r.store.Update(ctx, byEmail.ID, models.AccountPatch{ExternalID: &externalID})
		if err != nil {
			return nil, "", persistError("link external identity", err)
		}
		return linked.Public(), Linked, nil

	default:
		hash, err := r.hasher.PlaceholderHash()
		if err != nil {
			return nil, "", err
		}
		externalID := p.ExternalID
		name := strings.TrimSpace(p.DisplayName)
		if name == "" {
			name = p.Email
		}
		created, err := r.store.Create(ctx, models.AccountDraft{
			DisplayName:  name,
			Email:        p.Email,
			PasswordHash: hash,
			ExternalID:   &externalID,
			Active:       true,
		})
		if err != nil {
			return nil, "", persistError("create account from external identity", err)
		}
		return created.Public(), Created, nil
	}
}

// find treats not-found as a nil account; any other failure is
// ErrStoreUnavailable.
func (r *Resolver) find(ctx context.Context, lookup func(context.Context, string) (*models.Account, error), key string) (*models.Account, error) {
	a, err := lookup(ctx, key)
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, common.ErrNotFound):
		return nil, nil
	case errors.Is(err, common.ErrStoreUnavailable):
		return nil, err
	default:
		return nil, fmt.Errorf("resolve identity: %w: %v", common.ErrStoreUnavailable, err)
	}
}

func persistError(op string, err error) error {
	switch common.Classify(err) {
	case common.KindConflict, common.KindStoreUnavailable:
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, common.ErrStoreUnavailable, err)
	}
}
