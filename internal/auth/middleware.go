package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/recipe-api/recipe-api/internal/platform/httpx"
	"github.com/recipe-api/recipe-api/internal/shared"
	"github.com/recipe-api/recipe-api/internal/users"
)

// Authenticator resolves a presented token key to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*users.User, error)
}

// Middleware wires token authentication for HTTP handlers.
type Middleware struct {
	Authenticator Authenticator
	Logger        *slog.Logger
}

// RequireToken rejects requests without a valid "Token <key>" or "Bearer <key>"
// Authorization header and stores the caller's id in the request context.
func (m Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := tokenFromHeader(r.Header.Get("Authorization"))
		if !ok {
			httpx.Unauthorized(w, "authentication credentials were not provided")
			return
		}
		user, err := m.Authenticator.Authenticate(r.Context(), key)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthorized) {
				httpx.Unauthorized(w, "invalid token")
				return
			}
			if m.Logger != nil {
				m.Logger.Error("authenticate token", slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
		ctx := shared.ContextWithUserID(r.Context(), user.ID)
		ctx = shared.ContextWithToken(ctx, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromHeader(header string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", false
	}
	return key, true
}
