package auth

import (
	"context"
	"net/http"
	"strings"

	"bookclub/internal/apperr"
	"bookclub/internal/httpx"
)

// Principal is the authenticated identity a request acts as.
type Principal struct {
	Username string
	Role     string
}

type contextKey string

const principalKey contextKey = "principal"

// Authenticate parses an optional bearer token and, when valid, stores the
// principal on the request context. It never rejects by itself; the route
// guards below decide whether a principal is required.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if claims, err := ParseToken(secret, token); err == nil {
					principal := Principal{Username: claims.Username, Role: claims.Role}
					ctx := context.WithValue(r.Context(), principalKey, principal)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(r *http.Request) (Principal, bool) {
	principal, ok := r.Context().Value(principalKey).(Principal)
	return principal, ok
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r); !ok {
			httpx.Error(w, r, apperr.Unauthorized(""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSameUser rejects requests whose principal does not match the named
// route parameter: 401 when anonymous, 403 when authenticated as someone else.
func RequireSameUser(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r)
			if !ok {
				httpx.Error(w, r, apperr.Unauthorized(""))
				return
			}
			if principal.Username != r.PathValue(param) {
				httpx.Error(w, r, apperr.Forbidden(""))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
