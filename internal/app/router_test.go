package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-api/recipe-api/internal/auth"
	"github.com/recipe-api/recipe-api/internal/observability"
	"github.com/recipe-api/recipe-api/internal/recipe"
	"github.com/recipe-api/recipe-api/internal/shared"
	"github.com/recipe-api/recipe-api/internal/users"
	"github.com/recipe-api/recipe-api/jobs"
	_ "github.com/recipe-api/recipe-api/testing"
)

type staticAuthenticator struct{}

func (staticAuthenticator) Authenticate(ctx context.Context, key string) (*users.User, error) {
	if key != "valid" {
		return nil, shared.ErrUnauthorized
	}
	return &users.User{ID: 1, IsActive: true}, nil
}

type fixedAttributes struct{}

func (fixedAttributes) ListByOwner(ctx context.Context, kind recipe.Kind, ownerID int64) ([]recipe.Attribute, error) {
	return []recipe.Attribute{{ID: 1, Name: kind.Name, UserID: ownerID}}, nil
}

func (fixedAttributes) Create(ctx context.Context, kind recipe.Kind, attr recipe.Attribute) (recipe.Attribute, error) {
	attr.ID = 1
	return attr, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mw := auth.Middleware{Authenticator: staticAuthenticator{}}
	svc := recipe.NewService(fixedAttributes{})
	return NewRouter(RouterParams{
		Config:            &Config{RateLimitPerMinute: 1000, CORSAllowedOrigins: []string{"https://app.example"}},
		UsersHandler:      users.NewHandler(nil, users.NewService(nil, nil, nil, nil), mw.RequireToken),
		AuthHandler:       auth.NewHandler(nil, auth.NewService(nil, nil, nil, nil)),
		AuthMiddleware:    mw,
		TagHandler:        recipe.NewHandler(nil, svc, recipe.Tags),
		IngredientHandler: recipe.NewHandler(nil, svc, recipe.Ingredients),
		JobHandler:        jobs.NewHandler(nil, nil),
		Metrics:           observability.NewMetrics(),
	})
}

func serve(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	rr := serve(newTestRouter(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestRecipeRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t)

	rr := serve(h, http.MethodGet, "/api/recipe/tags/", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = serve(h, http.MethodGet, "/api/recipe/ingredients", "bogus")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRecipeRoutesWithAndWithoutTrailingSlash(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{"/api/recipe/tags", "/api/recipe/tags/"} {
		rr := serve(h, http.MethodGet, path, "valid")
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `[{"id":1,"name":"tag"}]`, rr.Body.String())
	}
	rr := serve(h, http.MethodGet, "/api/recipe/ingredients/", "valid")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"name":"ingredient"}]`, rr.Body.String())
}

func TestProfilePostNotAllowed(t *testing.T) {
	rr := serve(newTestRouter(t), http.MethodPost, "/api/user/me/", "valid")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
}

func TestUnknownRouteIsProblem(t *testing.T) {
	rr := serve(newTestRouter(t), http.MethodGet, "/api/recipe-book", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/user/token", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsAndJobsMounted(t *testing.T) {
	h := newTestRouter(t)
	_ = serve(h, http.MethodGet, "/healthz", "")

	rr := serve(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "recipe_http_requests_total"))

	rr = serve(h, http.MethodGet, "/jobs/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"queue":"default"`)
}
