package shared

import "context"

type userContextKey struct{}

type tokenContextKey struct{}

// ContextWithUserID stores the authenticated user id in context.
func ContextWithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userContextKey{}, id)
}

// UserIDFromContext extracts the authenticated user id from context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userContextKey{}).(int64)
	return id, ok && id > 0
}

// ContextWithToken stores the presented token key in context.
func ContextWithToken(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, key)
}

// TokenFromContext extracts the presented token key from context.
func TokenFromContext(ctx context.Context) string {
	key, _ := ctx.Value(tokenContextKey{}).(string)
	return key
}
