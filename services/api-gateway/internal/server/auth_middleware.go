package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/api-gateway/internal/auth"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/api-gateway/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/api-gateway/internal/port"
)

// TokenValidator is what the middleware needs from the auth service client.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

type claimsKeyType struct{}

var claimsKey = claimsKeyType{}

type AuthMiddleware struct {
	authClient TokenValidator
}

func NewAuthMiddleware(authClient TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{authClient: authClient}
}

// Authenticate checks the bearer token against the auth service and stamps
// the request with the X-User-ID header the internal services trust.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "Invalid token format", http.StatusUnauthorized)
			return
		}

		claims, err := am.authClient.ValidateToken(r.Context(), tokenString)
		if err != nil {
			logger.Warn("Token validation failed", port.Fields{"error": err.Error()})
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)

		// Clients cannot be trusted to set this themselves.
		r.Header.Set("X-User-ID", claims.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims set by Authenticate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
