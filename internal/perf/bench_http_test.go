package perf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/recipe-api/recipe-api/internal/app"
	"github.com/recipe-api/recipe-api/internal/auth"
	"github.com/recipe-api/recipe-api/internal/recipe"
	"github.com/recipe-api/recipe-api/internal/shared"
	"github.com/recipe-api/recipe-api/internal/users"
	_ "github.com/recipe-api/recipe-api/testing"
)

const benchKey = "0123456789abcdef0123456789abcdef01234567"

type singleToken struct{}

func (singleToken) GetOrCreate(ctx context.Context, userID int64, key string) (*auth.Token, error) {
	return &auth.Token{Key: benchKey, UserID: userID}, nil
}

func (singleToken) FindByKey(ctx context.Context, key string) (*auth.Token, error) {
	if key != benchKey {
		return nil, shared.ErrNotFound
	}
	return &auth.Token{Key: benchKey, UserID: 1}, nil
}

type singleUser struct{}

func (singleUser) FindByID(ctx context.Context, id int64) (*users.User, error) {
	return &users.User{ID: id, Email: "bench@example.com", IsActive: true}, nil
}

func (singleUser) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return nil, shared.ErrNotFound
}

type pantry struct {
	attrs []recipe.Attribute
}

func (p pantry) ListByOwner(ctx context.Context, kind recipe.Kind, ownerID int64) ([]recipe.Attribute, error) {
	return p.attrs, nil
}

func (p pantry) Create(ctx context.Context, kind recipe.Kind, attr recipe.Attribute) (recipe.Attribute, error) {
	attr.ID = int64(len(p.attrs) + 1)
	return attr, nil
}

func newBenchRouter(tb testing.TB) http.Handler {
	tb.Helper()
	srv := miniredis.RunT(tb)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	tb.Cleanup(func() { _ = client.Close() })

	authService := auth.NewService(nil, singleToken{}, singleUser{}, auth.NewTokenCache(client, time.Minute))
	mw := auth.Middleware{Authenticator: authService}

	attrs := make([]recipe.Attribute, 0, 50)
	for i := 50; i > 0; i-- {
		attrs = append(attrs, recipe.Attribute{ID: int64(i), Name: "ingredient", UserID: 1})
	}
	svc := recipe.NewService(pantry{attrs: attrs})
	return app.NewRouter(app.RouterParams{
		Config:            &app.Config{},
		AuthMiddleware:    mw,
		TagHandler:        recipe.NewHandler(nil, svc, recipe.Tags),
		IngredientHandler: recipe.NewHandler(nil, svc, recipe.Ingredients),
	})
}

func listRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/recipe/ingredients/", nil)
	req.Header.Set("Authorization", "Token "+benchKey)
	return req
}

func TestAuthenticatedListLatency(t *testing.T) {
	h := newBenchRouter(t)
	samples := make([]time.Duration, 0, 200)
	for i := 0; i < 200; i++ {
		rr := httptest.NewRecorder()
		start := time.Now()
		h.ServeHTTP(rr, listRequest())
		samples = append(samples, time.Since(start))
		require.Equal(t, http.StatusOK, rr.Code)
	}
	if p95 := percentile95(samples); p95 > 250*time.Millisecond {
		t.Fatalf("authenticated list latency regression: p95=%s", p95)
	}
}

func BenchmarkAuthenticatedList(b *testing.B) {
	h := newBenchRouter(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, listRequest())
		if rr.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rr.Code)
		}
	}
}

func BenchmarkAuthenticateParallel(b *testing.B) {
	srv := miniredis.RunT(b)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	b.Cleanup(func() { _ = client.Close() })
	svc := auth.NewService(nil, singleToken{}, singleUser{}, auth.NewTokenCache(client, time.Minute))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.Authenticate(context.Background(), benchKey); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
