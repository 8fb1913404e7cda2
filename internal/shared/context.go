package shared

import "context"

// CurrentUser identifies the authenticated operator for a request.
type CurrentUser struct {
	ID       int64
	Username string
	Name     string
}

type userContextKey struct{}

// ContextWithUser stores the authenticated user in context.
func ContextWithUser(ctx context.Context, u *CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext extracts the authenticated user from context, nil when
// unauthenticated.
func UserFromContext(ctx context.Context) *CurrentUser {
	u, _ := ctx.Value(userContextKey{}).(*CurrentUser)
	return u
}
