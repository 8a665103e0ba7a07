package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"taskboard/internal/api/shared"
	"taskboard/internal/domain"
	"taskboard/internal/redact"
	"taskboard/internal/service/auth"
)

// AuthMiddleware gates identity-scoped routes behind bearer-token
// authentication.
type AuthMiddleware struct {
	authenticator *auth.Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator *auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
	}
}

// Authenticate resolves the bearer token from the Authorization header to
// a stored user and adds that identity to the request context. Every
// token failure, including an unknown subject, yields the same 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		token := parts[1]

		identity, err := m.authenticator.Resolve(r.Context(), token)
		if err != nil {
			if err == auth.ErrInvalidToken {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			slog.Error("failed to resolve token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := context.WithValue(r.Context(), shared.IdentityContextKey, identity)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the authenticated user from the request context.
// Returns the user and a boolean indicating if it was found.
func GetIdentity(r *http.Request) (*domain.User, bool) {
	identity, ok := r.Context().Value(shared.IdentityContextKey).(*domain.User)
	return identity, ok
}
