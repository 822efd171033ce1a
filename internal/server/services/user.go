// Package services contains server-side business logic. This file implements
// UserService: registration, password and Google login, the profile lookup and
// the account management operations behind /api/users.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/dbx"
	"github.com/rcornejom06/authcore/internal/server/auth"
	"github.com/rcornejom06/authcore/internal/server/identity"
	"github.com/rcornejom06/authcore/internal/server/models"
	"github.com/rcornejom06/authcore/internal/server/repositories/accounts"
	"github.com/rcornejom06/authcore/internal/server/repositories/repomanager"
)

// Session is the result of a successful sign-in: a bearer token and the
// account it was issued for.
type Session struct {
	Token   string
	Account *models.PublicAccount
}

// UserService ties the credential verifier, token manager and identity
// resolver to one accounts store.
type UserService struct {
	accounts accounts.Repository
	hasher   *auth.Hasher
	tokens   *auth.TokenManager
	verifier *auth.CredentialVerifier
	resolver *identity.Resolver
}

// NewUserService binds the service to the accounts repository that m vends for
// db. db may be nil for backends that do not use one.
func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, hasher *auth.Hasher, tokens *auth.TokenManager) (*UserService, error) {
	repo := m.Accounts(db)
	verifier, err := auth.NewCredentialVerifier(repo, hasher)
	if err != nil {
		return nil, err
	}
	return &UserService{
		accounts: repo,
		hasher:   hasher,
		tokens:   tokens,
		verifier: verifier,
		resolver: identity.NewResolver(repo, hasher),
	}, nil
}

// Register creates a password account and signs it in.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	account, err := s.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issue(account)
}

// Login checks the credentials and issues a token.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	account, err := s.verifier.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(account)
}

// LoginExternal resolves a provider profile to a local account and issues a
// token for it.
func (s *UserService) LoginExternal(ctx context.Context, p identity.Profile) (*Session, identity.Outcome, error) {
	account, outcome, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, "", err
	}
	session, err := s.issue(account)
	if err != nil {
		return nil, "", err
	}
	return session, outcome, nil
}

// Authenticate verifies an Authorization header value.
func (s *UserService) Authenticate(header string) (*auth.Principal, error) {
	return s.tokens.Verify(header)
}

// Profile returns the current state of the principal's account.
func (s *UserService) Profile(ctx context.Context, p *auth.Principal) (*models.PublicAccount, error) {
	if p == nil {
		return nil, common.ErrTokenInvalid
	}
	return s.Get(ctx, p.UserID)
}

func (s *UserService) List(ctx context.Context) ([]*models.PublicAccount, error) {
	all, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.PublicAccount, 0, len(all))
	for _, a := range all {
		out = append(out, a.Public())
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.PublicAccount, error) {
	a, err := s.accounts.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return a.Public(), nil
}

// Create validates req and stores a new active account without signing in.
func (s *UserService) Create(ctx context.Context, req RegisterRequest) (*models.PublicAccount, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	a, err := s.accounts.Create(ctx, models.AccountDraft{
		DisplayName:  strings.TrimSpace(req.Name),
		Email:        common.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Age:          req.Age,
		Active:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return a.Public(), nil
}

// Update applies the non-nil fields of req. A new password is re-hashed.
func (s *UserService) Update(ctx context.Context, id string, req UpdateRequest) (*models.PublicAccount, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	patch := models.AccountPatch{Age: req.Age, Active: req.Active}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		patch.DisplayName = &name
	}
	if req.Email != nil {
		email := common.NormalizeEmail(*req.Email)
		patch.Email = &email
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	if patch.Empty() {
		return s.Get(ctx, id)
	}
	a, err := s.accounts.Update(ctx, strings.TrimSpace(id), patch)
	if err != nil {
		return nil, err
	}
	return a.Public(), nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*models.PublicAccount, error) {
	a, err := s.accounts.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return a.Public(), nil
}

func (s *UserService) issue(account *models.PublicAccount) (*Session, error) {
	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Account: account}, nil
}
