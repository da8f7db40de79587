package auth

import (
	"context"

	"gwi.com/covalence/internal/session"
)

type identityContextKey struct{}

// WithIdentity attaches the authenticated identity to ctx.
func WithIdentity(ctx context.Context, id *session.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity set by WithIdentity, or nil.
func IdentityFromContext(ctx context.Context) *session.Identity {
	id, _ := ctx.Value(identityContextKey{}).(*session.Identity)
	return id
}
