// Package http serves the operational endpoints of a running pipeline
// command: liveness, readiness, the per-stage run history, and Prometheus
// metrics.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor is the view of the stage runner the endpoints report on.
type Monitor interface {
	// Ready once a stage has completed.
	sharedobs.ReadinessChecker
	// Status returns a JSON-encodable stage history.
	Status() any
}

// Server exposes /healthz, /readyz, /status and /metrics while a command runs.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer wires the routes. Metrics are gathered from gatherer, usually
// prometheus.DefaultGatherer.
func NewServer(addr string, monitor Monitor, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(monitor))
	mux.HandleFunc("GET /status", statusHandler(monitor))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

type runStatus struct {
	Ready  bool `json:"ready"`
	Stages any  `json:"stages"`
}

func statusHandler(monitor Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sharedobs.WriteJSON(w, http.StatusOK, runStatus{
			Ready:  monitor.CheckReadiness(r.Context()) == nil,
			Stages: monitor.Status(),
		})
	}
}

// Start listens until Shutdown. It returns http.ErrServerClosed after a
// graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown drains open connections until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.srv.Handler.ServeHTTP(w, r)
}
