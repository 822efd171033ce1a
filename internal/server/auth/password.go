package auth

import (
	"errors"
	"fmt"

	"github.com/rcornejom06/authcore/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MinBcryptCost is the lowest work factor accepted for stored hashes.
const MinBcryptCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// Hasher hashes and compares passwords with bcrypt.
type Hasher struct {
	cost int
}

func NewHasher(cost int) (*Hasher, error) {
	if cost < MinBcryptCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]: %w", cost, MinBcryptCost, bcrypt.MaxCost, common.ErrConfiguration)
	}
	return &Hasher{cost: cost}, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("password longer than %d bytes: %w", MaxPasswordBytes, common.ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w: %w", common.ErrInternal, err)
	}
	return string(b), nil
}

// Matches reports whether password hashes to hash.
func (h *Hasher) Matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PlaceholderHash hashes a random secret nobody knows. Accounts created from an
// external identity get one so the password column is never empty.
func (h *Hasher) PlaceholderHash() (string, error) {
	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("placeholder password: %w: %w", common.ErrInternal, err)
	}
	return h.Hash(secret)
}
