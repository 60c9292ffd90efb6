package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sportsbeams/pipeline/internal/server/middleware"
	"github.com/sportsbeams/pipeline/pkg/metrics"
)

// routes builds the request mux with the middleware chain applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	prefix := s.config.PathPrefix
	mux.HandleFunc("POST "+prefix+"/imports/json", s.handleImportJSON)
	mux.HandleFunc("POST "+prefix+"/imports/upload", s.handleImportUpload)
	mux.HandleFunc("POST "+prefix+"/imports/preview", s.handleImportPreview)
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.config.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	}

	chain := middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
		middleware.Metrics(s.metrics),
	)
	return chain(mux)
}
