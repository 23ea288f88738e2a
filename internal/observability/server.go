package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// NewServer builds a standalone HTTP server exposing /metrics, for processes
// that do not run the API router.
func NewServer(addr string, m *Metrics) *http.Server {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", m.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
