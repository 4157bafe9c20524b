package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"presswatch/config"
	"presswatch/core/aggregates"
	"presswatch/core/incidents"
	"presswatch/core/store"
	"presswatch/core/utils"
)

// BackgroundWorker is anything started alongside the HTTP server and stopped
// on shutdown.
type BackgroundWorker interface {
	StartWithContext(ctx context.Context)
	StopWithContext(ctx context.Context) error
}

type ServerDeps struct {
	IncidentsSvc    *incidents.Service
	Updater         *aggregates.Updater
	AggregatesStore store.AggregatesStore
	LookupsStore    store.LookupsStore
}

type Server struct {
	cfg    *config.AppConfig
	deps   ServerDeps
	logger *utils.Logger
	router http.Handler
}

func NewServer(cfg *config.AppConfig, deps ServerDeps, logger *utils.Logger) *Server {
	s := &Server{cfg: cfg, deps: deps, logger: logger}
	s.router = s.newRouter()
	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains with a shutdown grace
// period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.Printf("listening on %s", s.cfg.ListenAddr)
		}
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
