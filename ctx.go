package authkit

import (
	"context"
)

var managerCtxKey = &contextKey{"manager"}
var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithManager sets the Manager in the given context
func WithManager(ctx context.Context, manager *Manager) context.Context {
	return context.WithValue(ctx, managerCtxKey, manager)
}

// FromManager finds the Manager in the context.
func FromManager(ctx context.Context) (*Manager, bool) {
	raw, ok := ctx.Value(managerCtxKey).(*Manager)
	return raw, ok
}

// MustManager returns the Manager or panics. Calling auth operations outside
// an initialized Manager scope is a programming error, not a runtime
// condition to recover from.
func MustManager(ctx context.Context) *Manager {
	manager, ok := FromManager(ctx)
	if !ok || manager == nil {
		panic("authkit: MustManager called outside an initialized Manager scope")
	}
	return manager
}

// WithIdentity sets the Identity in the given context
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*Identity)
	return raw, ok
}
