package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const scopeKey ctxKey = "scope"

const (
	CookieName = "cart_scope"

	cookieTTL = 180 * 24 * time.Hour
)

// Scope returns the browser scope id attached by Middleware.
func Scope(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(scopeKey).(string)
	return s, ok
}

// Middleware resolves the scope cookie, minting and setting a fresh one
// when it is absent or fails verification. It never rejects a request: a
// bad cookie just means a new, empty cart scope.
func Middleware(tm *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := ""

			if c, err := r.Cookie(CookieName); err == nil {
				if claims, err := tm.Parse(c.Value); err == nil {
					scope = claims.Scope
				}
			}

			if scope == "" {
				scope = "s_" + uuid.NewString()
				if token, err := tm.New(scope, cookieTTL); err == nil {
					http.SetCookie(w, &http.Cookie{
						Name:     CookieName,
						Value:    token,
						Path:     "/",
						MaxAge:   int(cookieTTL / time.Second),
						HttpOnly: true,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}

			ctx := context.WithValue(r.Context(), scopeKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
