package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-todo-server/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the verified access-token claims for the
// lifetime of one request. Nothing is cached beyond that.
const ContextKeyClaims ContextKey = "claims"

const (
	msgAuthRequired = "Authentication required"
	msgInvalidToken = "Invalid or expired token"
)

// RequireAuth validates a Bearer access token and attaches its claims to
// the request context. The scheme prefix is matched case-sensitively;
// anything else counts as an absent token. Failure reasons are never
// distinguished to the caller.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || tokenStr == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgAuthRequired})
				return
			}

			claims, err := s.codec.VerifyAccessToken(tokenStr)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgInvalidToken})
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// ClaimsFromContext returns the claims attached by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*token.AccessClaims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.AccessClaims)
	return claims, ok
}
