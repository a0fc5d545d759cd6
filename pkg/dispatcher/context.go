package dispatcher

import (
	"context"

	"tasker_server/pkg/rest"
)

// contextKey :
// Private type used to key the values this package attaches
// to a request context so that no other package can collide
// with them.
type contextKey int

const (
	identityKey contextKey = iota
)

// withIdentity :
// Attaches the input identity claim to the context. This is
// performed by the dispatcher once the authentication gate
// has succeeded and before the handler is invoked.
//
// The `ctx` defines the parent context.
//
// The `identity` defines the claim to attach.
//
// Returns the derived context.
func withIdentity(ctx context.Context, identity rest.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext :
// Fetches the identity claim attached to the input context.
// Handlers registered on authenticated routes can rely on
// the claim being present; handlers of public routes will
// observe the boolean set to `false`.
//
// The `ctx` defines the context to inspect.
//
// Returns the attached claim along with a boolean which is
// `true` only if a claim was attached.
func IdentityFromContext(ctx context.Context) (rest.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(rest.Identity)
	return identity, ok
}
