package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/recipe-api/recipe-api/internal/auth"
	"github.com/recipe-api/recipe-api/internal/observability"
	"github.com/recipe-api/recipe-api/internal/platform/httpx"
	"github.com/recipe-api/recipe-api/internal/recipe"
	"github.com/recipe-api/recipe-api/internal/users"
	"github.com/recipe-api/recipe-api/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	UsersHandler      *users.Handler
	AuthHandler       *auth.Handler
	AuthMiddleware    auth.Middleware
	TagHandler        *recipe.Handler
	IngredientHandler *recipe.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.StripSlashes)

	// Subrouters inherit these only when set before Route is called.
	r.NotFound(httpx.NotFound)
	r.MethodNotAllowed(httpx.MethodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/user", func(r chi.Router) {
		if params.UsersHandler != nil {
			params.UsersHandler.MountRoutes(r)
		}
		if params.AuthHandler != nil {
			params.AuthHandler.MountRoutes(r)
		}
	})

	r.Route("/api/recipe", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireToken)
		if params.TagHandler != nil {
			r.Route("/tags", params.TagHandler.MountRoutes)
		}
		if params.IngredientHandler != nil {
			r.Route("/ingredients", params.IngredientHandler.MountRoutes)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
