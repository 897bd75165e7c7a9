package identity

import "context"

type contextKey struct{}

// WithState stashes the evaluated auth state for downstream handlers so they
// do not consult the store a second time within one request.
func WithState(ctx context.Context, state AuthState) context.Context {
	return context.WithValue(ctx, contextKey{}, state)
}

// StateFrom returns the auth state placed by the guard middleware.
func StateFrom(ctx context.Context) (AuthState, bool) {
	state, ok := ctx.Value(contextKey{}).(AuthState)
	return state, ok
}
