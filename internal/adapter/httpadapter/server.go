package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/sea-level-chart/internal/domain"
	"github.com/couchcryptid/sea-level-chart/internal/render"
)

// PhaseSource reports the current water gauge wave phase.
type PhaseSource interface {
	Phase() float64
}

// Deps are the collaborators the HTTP routes read from.
type Deps struct {
	Ready           sharedobs.ReadinessChecker
	Stores          render.StoreProvider
	Charts          render.Charter
	Phase           PhaseSource // optional; a nil source renders phase 0
	Catalog         *domain.Catalog // initial catalog; replace with SetCatalog
	DefaultCategory string
	ChartWidth      int
	ChartHeight     int
}

// Server exposes health, readiness, metrics, chart data and chart image endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	catalog    atomic.Pointer[domain.Catalog]
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the operational routes under / and the
// chart API under /api/v1.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}
	s.SetCatalog(deps.Catalog)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/categories", s.handleCategories)
	mux.HandleFunc("GET /api/v1/series", s.handleSeries)
	mux.HandleFunc("GET /api/v1/hit", s.handleHit)
	mux.HandleFunc("GET /chart.png", s.handleChart(render.FormatPNG))
	mux.HandleFunc("GET /chart.svg", s.handleChart(render.FormatSVG))

	return s
}

// SetCatalog replaces the category catalog served to the pickers, e.g. after
// a dataset reload. A nil catalog serves no categories.
func (s *Server) SetCatalog(c *domain.Catalog) {
	if c == nil {
		c = domain.NewCatalog(nil)
	}
	s.catalog.Store(c)
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
