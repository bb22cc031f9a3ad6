package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const userIDKey = contextKey("userID")

// AuthMiddleware extracts the user ID from the X-User-ID header.
// The header is set by the API gateway after validating the JWT.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			// Either a configuration problem or a direct call bypassing the gateway.
			WriteJSONError(w, http.StatusUnauthorized, "Authentication error: User ID header is missing")
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			WriteJSONError(w, http.StatusUnauthorized, "Authentication error: Invalid User ID format")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithUserID attaches a user ID the same way AuthMiddleware does.
func ContextWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user ID set by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}
