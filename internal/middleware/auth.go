package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tsoares/amigo-secreto/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// GroupIDKey is the context key holding the group ID an admin token was
// validated against.
const GroupIDKey contextKey = "group_id"

// AdminGroupID extracts the authorized group ID from the context.
// Returns empty string if the request carried no valid admin token.
func AdminGroupID(ctx context.Context) string {
	groupID, _ := ctx.Value(GroupIDKey).(string)
	return groupID
}

// RequireGroupAdmin validates the Bearer admin token and checks that it was
// issued for the group named in the URL. Creating a group is open to anyone;
// drawing and deleting it are reserved for whoever holds the token returned
// at creation.
func RequireGroupAdmin(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				ErrorResponse(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}

			if claims.GroupID != chi.URLParam(r, "groupID") {
				ErrorResponse(w, http.StatusForbidden, "token was issued for a different group")
				return
			}

			ctx := context.WithValue(r.Context(), GroupIDKey, claims.GroupID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
