// Package server serves rendered diagrams over HTTP for live preview.
//
// Routes:
//
//	GET /healthz               liveness check
//	GET /layout                the active layout as TOML
//	GET /diagram.{format}      png, svg or pdf; optional ?dpi=
//	GET /nodelink.{format}     svg, png, pdf or dot; optional ?dpi=, ?detailed=1
//
// Artifact responses carry an ETag derived from the artifact bytes and honor
// If-None-Match. Every response carries X-Request-ID.
package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/pipeline"
)

// MaxDPI bounds the ?dpi= query so one request cannot allocate an
// arbitrarily large canvas.
const MaxDPI = 300

// shutdownTimeout bounds graceful shutdown after the context ends.
const shutdownTimeout = 5 * time.Second

// Server renders one layout on demand. The layout can be swapped while
// serving with SetLayout.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	limiter Limiter

	mu     sync.RWMutex
	layout *diagram.Diagram
	toml   []byte
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithLimiter enables per-client rate limiting.
func WithLimiter(l Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// New creates a server for d.
func New(runner *pipeline.Runner, d *diagram.Diagram, opts ...Option) (*Server, error) {
	s := &Server{runner: runner, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.SetLayout(d); err != nil {
		return nil, err
	}
	return s, nil
}

// SetLayout replaces the served layout. In-flight requests finish with the
// layout they started with.
func (s *Server) SetLayout(d *diagram.Diagram) error {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return err
	}
	s.mu.Lock()
	s.layout, s.toml = d, buf.Bytes()
	s.mu.Unlock()
	return nil
}

func (s *Server) current() (*diagram.Diagram, []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout, s.toml
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	if s.limiter != nil {
		r.Use(s.rateLimit)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/layout", s.handleLayout)
	r.Get("/diagram.{format}", s.handleArtifact(pipeline.VizTypeDiagram))
	r.Get("/nodelink.{format}", s.handleArtifact(pipeline.VizTypeNodelink))
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
