package middleware

import (
	"context"
	"net/http"

	"github.com/go-verify-reset/internal/domain"
)

const UserKey contextKey = "user"

type userGetter interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// PopulateUser resolves the authenticated claims to the full user record and
// injects it into context. Must run after Auth.
func PopulateUser(store userGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			u, err := store.Get(r.Context(), claims.UserID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unknown user")
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the populated user record from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}

// RequireVerified rejects requests whose populated user has not completed
// email verification.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !u.IsVerified {
			writeJSONError(w, http.StatusForbidden, "account is not verified")
			return
		}
		next.ServeHTTP(w, r)
	})
}
