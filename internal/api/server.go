// Package api exposes the REST surface over the generation pipeline.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scriptforge/internal/agents/scriptwriter"
	"scriptforge/internal/analytics"
	"scriptforge/internal/common/logger"
	"scriptforge/internal/common/observability"
	"scriptforge/internal/generation"
	"scriptforge/internal/store"
)

// Generator runs the generation pipeline.
type Generator interface {
	Generate(ctx context.Context, req *generation.Request) (*generation.Response, error)
	GenerateStream(ctx context.Context, req *generation.Request) <-chan generation.Event
	Refine(ctx context.Context, scriptID, feedback string) (*scriptwriter.Result, error)
}

// ScriptReader serves stored scripts.
type ScriptReader interface {
	Get(ctx context.Context, scriptID string) (*store.Script, error)
	List(ctx context.Context, skip, limit int) (int, []*store.Script, error)
	Delete(ctx context.Context, scriptID string) (bool, error)
}

// Dashboard answers analytics queries.
type Dashboard interface {
	Dashboard(ctx context.Context) (*analytics.DashboardStats, error)
	Recent(ctx context.Context, limit int) ([]analytics.RecentScript, error)
}

// Server holds the handler dependencies.
type Server struct {
	generator Generator
	scripts   ScriptReader
	dashboard Dashboard
	obs       *observability.Observability
	logger    logger.Logger
	version   string
}

func NewServer(generator Generator, scripts ScriptReader, dashboard Dashboard, obs *observability.Observability, log logger.Logger, version string) *Server {
	return &Server{
		generator: generator,
		scripts:   scripts,
		dashboard: dashboard,
		obs:       obs,
		logger:    log.With(map[string]interface{}{"component": "api"}),
		version:   version,
	}
}

// Routes builds the route table.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/generate-stream", s.handleGenerateStream)

	mux.HandleFunc("GET /api/scripts", s.handleListScripts)
	mux.HandleFunc("GET /api/scripts/{script_id}", s.handleGetScript)
	mux.HandleFunc("DELETE /api/scripts/{script_id}", s.handleDeleteScript)
	mux.HandleFunc("POST /api/scripts/{script_id}/refine", s.handleRefineScript)
	mux.HandleFunc("GET /api/scripts/{script_id}/export", s.handleExportScript)

	mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	mux.HandleFunc("GET /api/templates/{template_id}", s.handleGetTemplate)
	mux.HandleFunc("POST /api/templates/{template_id}/apply", s.handleApplyTemplate)

	mux.HandleFunc("GET /api/analytics/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/analytics/recent", s.handleRecentScripts)

	return s.withMiddleware(mux)
}

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush forwards to the wrapped writer so SSE streaming keeps working
// behind the middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		duration := time.Since(start)
		if s.obs != nil {
			s.obs.RecordRequest(r.Context(), r.Method, r.URL.Path, recorder.status)
			s.obs.RecordRequestDuration(r.Context(), duration, r.URL.Path)
		}
		s.logger.Info("request handled", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   recorder.status,
			"duration": duration.String(),
		})
	})
}
