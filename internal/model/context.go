package model

import "context"

type contextKey string

const tokenContextKey contextKey = "auth_token"

// ContextWithToken returns a context carrying the extracted bearer token.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext retrieves the bearer token set by the transport layer.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}
