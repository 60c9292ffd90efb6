// Package server provides the HTTP surface for the import pipeline:
// JSON and multipart import submission, dry-run preview, health, and
// Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sportsbeams/pipeline/pkg/importer"
	"github.com/sportsbeams/pipeline/pkg/logging"
	"github.com/sportsbeams/pipeline/pkg/metrics"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	session *importer.Session
	metrics *metrics.Manager
	logger  *zerolog.Logger
	config  Config
	httpSrv *http.Server
}

// New creates a new server around an import session.
func New(session *importer.Session, cfg Config) *Server {
	logger := logging.Default()

	s := &Server{
		session: session,
		metrics: metrics.Default(),
		logger:  logger,
		config:  cfg,
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Start runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.config.Address).Msg("HTTP server listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}
