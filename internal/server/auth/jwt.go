package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/models"
)

// DefaultTokenTTL is the validity window of an issued token.
const DefaultTokenTTL = 24 * time.Hour

// Claims carries the principal inside a signed token.
type Claims struct {
	UserID      string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens. It holds only the
// secret, the validity window and a clock, so it is safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns common.ErrConfiguration when secret is empty or ttl
// is not positive. A nil now defaults to time.Now.
func NewTokenManager(secret []byte, ttl time.Duration, now func() time.Time) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token signing secret is empty: %w", common.ErrConfiguration)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl %s is not positive: %w", ttl, common.ErrConfiguration)
	}
	if now == nil {
		now = time.Now
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenManager{secret: key, ttl: ttl, now: now}, nil
}

// TTL reports the validity window applied by Issue.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for account. It never touches the store.
func (m *TokenManager) Issue(account *models.PublicAccount) (string, error) {
	if account == nil || account.ID == "" {
		return "", fmt.Errorf("issue token: account has no id: %w", common.ErrInternal)
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:      account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w: %w", common.ErrInternal, err)
	}
	return signed, nil
}

// Verify checks an Authorization header value and returns the principal it
// carries. The signature is checked before expiry, so a forged token is
// always reported as invalid rather than expired.
func (m *TokenManager) Verify(header string) (*Principal, error) {
	raw, err := ParseBearer(header)
	if err != nil {
		return nil, err
	}
	return m.VerifyToken(raw)
}

// VerifyToken is Verify for a bare token without the scheme prefix.
func (m *TokenManager) VerifyToken(raw string) (*Principal, error) {
	if len(m.secret) == 0 {
		return nil, fmt.Errorf("verify token: no signing secret: %w", common.ErrInternal)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.ErrTokenExpired
	default:
		return nil, fmt.Errorf("%w: %w", common.ErrTokenInvalid, err)
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("token has no subject: %w", common.ErrTokenInvalid)
	}

	p := &Principal{
		UserID:      claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}
