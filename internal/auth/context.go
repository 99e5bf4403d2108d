package auth

import (
	"context"
	"time"
)

// Identity is the caller resolved from a verified credential.
type Identity struct {
	ID        int64
	Email     string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}
