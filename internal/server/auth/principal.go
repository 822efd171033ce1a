package auth

import (
	"context"
	"time"
)

// Principal is the identity attached to a request after authentication.
type Principal struct {
	UserID      string
	Email       string
	DisplayName string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

type ctxKey string

const principalKey ctxKey = "principal"

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}
