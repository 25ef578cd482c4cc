package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/plotvest/plotvest/models"
)

type contextKey string

const userContextKey contextKey = "plotvest.user"

// UserStore persists identities asserted by the upstream gateway.
type UserStore interface {
	UpsertUser(ctx context.Context, openID, name, email string, role models.UserRole) (*models.User, error)
}

// Identity authenticates requests from the trusted gateway headers.
// X-User-ID carries the caller's OpenID; the user row is upserted on every
// request, mirroring the gateway's session refresh. adminOpenID, when set,
// is granted the admin role.
func Identity(store UserStore, adminOpenID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			openID := r.Header.Get("X-User-ID")
			if openID == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing identity", Code: "UNAUTHENTICATED"})
				return
			}

			role := models.RoleUser
			if adminOpenID != "" && openID == adminOpenID {
				role = models.RoleAdmin
			}
			user, err := store.UpsertUser(r.Context(),
				openID, r.Header.Get("X-User-Name"), r.Header.Get("X-User-Email"), role)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects non-admin callers. Must run inside Identity.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := UserFrom(r.Context())
		if err != nil || user.Role != models.RoleAdmin {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "admin role required", Code: "FORBIDDEN"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the authenticated user stored by Identity.
func UserFrom(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	return user, nil
}
