// Package site serves the marketing pages, static assets and the hero
// typing plan.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/appsimple/internal/config"
	"github.com/csheth/appsimple/internal/showcase"
	"github.com/csheth/appsimple/internal/typewriter"
)

// Server is the site HTTP server.
type Server struct {
	cfg         config.Config
	logger      *zap.Logger
	pages       *pageSet
	registry    *typewriter.Registry
	items       []showcase.Item
	caseStudies map[string]bool
	handler     http.Handler
}

// NewServer parses the templates and builds the routes.
func NewServer(cfg config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pages, err := newPageSet(cfg.Server.TemplatesDir, cfg.Server.ContentDir, logger)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:         cfg,
		logger:      logger,
		pages:       pages,
		registry:    cfg.Registry(),
		items:       showcase.Build(cfg.Options),
		caseStudies: make(map[string]bool, len(cfg.Server.CaseStudies)),
	}
	for _, name := range cfg.Server.CaseStudies {
		s.caseStudies[name] = true
	}
	s.handler = s.routes()
	return s, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if s.cfg.Server.Reload {
		if err := s.pages.Watch(ctx); err != nil {
			s.logger.Warn("template reload disabled", zap.Error(err))
		}
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		<-serveErr
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
