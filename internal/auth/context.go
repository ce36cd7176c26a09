package auth

import "context"

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "nomadcloset_session"

type contextKey struct{}

type AuthContext struct {
	UserID    string
	Email     string
	SessionID string
	// Token is the session cookie value; view state is keyed by it.
	Token string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) string {
	ac, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ac.UserID
}

func SessionID(ctx context.Context) string {
	ac, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ac.SessionID
}
