package middleware

import (
	"net/http"

	"github.com/okorneva/cloudstore/internal/model"
)

// Token extracts the bearer token from the auth-token header and stores it
// in the request context. Extraction happens only here; resolution stays in
// the core services so an unknown token fails inside the operation it
// targets.
type Token struct{}

// NewToken creates a new Token middleware.
func NewToken() *Token {
	return &Token{}
}

// Handle wraps next with token extraction.
func (m *Token) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := model.TokenFromHeader(r.Header.Get("auth-token"))
		next.ServeHTTP(w, r.WithContext(model.ContextWithToken(r.Context(), token)))
	})
}
