package auth

import "context"

// Identity is the authenticated caller of the current request.
type Identity struct {
	UserID string
	Role   string
}

// unexported, collision-proof context key
type identityKeyType struct{}

var identityKey = identityKeyType{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the identity attached by the guard.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
