package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-api/recipe-api/internal/shared"
	"github.com/recipe-api/recipe-api/internal/users"
)

type stubAuthenticator struct {
	keys map[string]int64
	err  error
}

func (s stubAuthenticator) Authenticate(ctx context.Context, key string) (*users.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.keys[key]
	if !ok {
		return nil, shared.ErrUnauthorized
	}
	return &users.User{ID: id, IsActive: true}, nil
}

func protectedHandler(t *testing.T, mw Middleware) http.Handler {
	t.Helper()
	return mw.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := shared.UserIDFromContext(r.Context())
		require.True(t, ok)
		key := shared.TokenFromContext(r.Context())
		w.Header().Set("X-User", key)
		w.WriteHeader(int(200 + id))
	}))
}

func TestRequireTokenMissingHeader(t *testing.T) {
	h := protectedHandler(t, Middleware{Authenticator: stubAuthenticator{}})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "Token")
}

func TestRequireTokenSchemes(t *testing.T) {
	h := protectedHandler(t, Middleware{Authenticator: stubAuthenticator{keys: map[string]int64{"abc123": 1}}})

	cases := map[string]int{
		"Token abc123":  201,
		"token abc123":  201,
		"Bearer abc123": 201,
		"Token wrong":   http.StatusUnauthorized,
		"Basic abc123":  http.StatusUnauthorized,
		"abc123":        http.StatusUnauthorized,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Code, header)
		if want == 201 {
			assert.Equal(t, "abc123", rr.Header().Get("X-User"))
		}
	}
}

func TestRequireTokenBackendFailure(t *testing.T) {
	h := protectedHandler(t, Middleware{Authenticator: stubAuthenticator{err: errors.New("db down")}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
