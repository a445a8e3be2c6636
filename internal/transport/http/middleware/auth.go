package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/publication-admin/internal/domain"
	jwtinfra "github.com/publication-admin/internal/infrastructure/jwt"
	"github.com/publication-admin/internal/transport/http/apierr"
)

type contextKey string

const UserKey contextKey = "user"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// UserLookup loads the user a token was issued for.
type UserLookup interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
}

// Auth returns middleware that validates the Bearer JWT, loads its user and
// injects the user into context. Tokens whose user no longer exists are rejected.
func Auth(verifier TokenVerifier, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, tokenStr, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
				apierr.Unauthorized(w, "No credentials")
				return
			}
			claims, err := verifier.Verify(strings.TrimSpace(tokenStr))
			if err != nil {
				apierr.Unauthorized(w, "Could not validate credentials: "+err.Error())
				return
			}
			u, err := users.Get(r.Context(), claims.UserID)
			if errors.Is(err, domain.ErrNotFound) {
				apierr.Unauthorized(w, "User is invalid or deleted")
				return
			}
			if err != nil {
				slog.Error("load current user", "component", "auth", "user_id", claims.UserID, "err", err)
				apierr.Write(w, http.StatusInternalServerError, apierr.CommonInternalError, "Internal server error", nil)
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}

// WithUser returns a context carrying u, as Auth would.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}
