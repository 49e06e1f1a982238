package auth

import "context"

// Identity is the authenticated user attached to a request context. It is
// written once by the auth middleware and only read afterwards.
type Identity struct {
	ID       string
	Username string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext reports the viewer on the context, if any. Anonymous
// requests simply have none; callers decide whether that is an error.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
