package auth

import (
	"context"

	"sakaylink/internal/presence"
)

type identityKey struct{}

// WithIdentity attaches the authenticated caller to the context. The auth
// middleware and the WebSocket upgrader are the only writers.
func WithIdentity(ctx context.Context, id presence.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// ContextProvider resolves the caller from the request context. It is the
// identity handle injected into the presence store.
type ContextProvider struct{}

func (ContextProvider) Authenticate(ctx context.Context) (presence.Identity, error) {
	id, ok := ctx.Value(identityKey{}).(presence.Identity)
	if !ok || id.UID == "" {
		return presence.Identity{}, presence.ErrNotAuthenticated
	}
	return id, nil
}
