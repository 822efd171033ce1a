package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/models"
)

// AccountFinder is the part of the accounts store the verifier reads.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// CredentialVerifier checks an email/password pair against the stored hash.
type CredentialVerifier struct {
	accounts  AccountFinder
	hasher    *Hasher
	dummyHash string
}

func NewCredentialVerifier(accounts AccountFinder, hasher *Hasher) (*CredentialVerifier, error) {
	dummy, err := hasher.PlaceholderHash()
	if err != nil {
		return nil, err
	}
	return &CredentialVerifier{accounts: accounts, hasher: hasher, dummyHash: dummy}, nil
}

// VerifyCredentials returns the matching account. An unknown email and a wrong
// password both yield common.ErrInvalidCredentials, and both pay for one
// bcrypt comparison.
func (v *CredentialVerifier) VerifyCredentials(ctx context.Context, email, password string) (*models.PublicAccount, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrMissingFields
	}

	account, err := v.accounts.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, common.ErrNotFound):
		v.hasher.Matches(v.dummyHash, password)
		return nil, common.ErrInvalidCredentials
	case err != nil:
		if common.Classify(err) == common.KindStoreUnavailable {
			return nil, err
		}
		return nil, fmt.Errorf("verify credentials: %w: %w", common.ErrStoreUnavailable, err)
	}

	if !v.hasher.Matches(account.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}
	return account.Public(), nil
}
