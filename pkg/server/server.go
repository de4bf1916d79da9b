// Package server hosts the koenote proxy routes behind the shared middleware
// chain and manages the HTTP listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/koenote/koenote-proxy/pkg/api/types"
	"github.com/koenote/koenote-proxy/pkg/backend"
	"github.com/koenote/koenote-proxy/pkg/config"
	"github.com/koenote/koenote-proxy/pkg/forward"
	"github.com/koenote/koenote-proxy/pkg/httputil"
	"github.com/koenote/koenote-proxy/pkg/koenote"
	"github.com/koenote/koenote-proxy/pkg/logging"
	"github.com/koenote/koenote-proxy/pkg/metrics"
	"github.com/koenote/koenote-proxy/pkg/mockdata"
)

// DefaultShutdownTimeout bounds graceful shutdown in Run.
const DefaultShutdownTimeout = 10 * time.Second

// Server is the koenote proxy HTTP server.
type Server struct {
	cfg       *config.Config
	mode      config.Mode
	log       *slog.Logger
	backend   forward.Backend
	generator *mockdata.Generator
	registry  *metrics.Registry
	metrics   *metrics.ProxyMetrics
	runtime   *metrics.RuntimeCollector
	now       func() time.Time
	handler   http.Handler

	mu       sync.Mutex
	http     *http.Server
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = logging.OrNop(log)
	}
}

// WithBackend replaces the backend client built from the configuration.
func WithBackend(b forward.Backend) Option {
	return func(s *Server) {
		s.backend = b
	}
}

// WithGenerator sets the mock payload generator.
func WithGenerator(g *mockdata.Generator) Option {
	return func(s *Server) {
		s.generator = g
	}
}

// WithRegistry registers the server metrics on r.
func WithRegistry(r *metrics.Registry) Option {
	return func(s *Server) {
		s.registry = r
	}
}

// WithClock sets the time source for /health.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Server from cfg. cfg must not be nil.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:  cfg,
		mode: cfg.ResolvedMode(),
		log:  logging.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = metrics.NewRegistry()
	}
	s.metrics = metrics.NewProxyMetrics(s.registry)
	s.runtime = metrics.NewRuntimeCollector(s.registry)

	if s.backend == nil {
		s.backend = backend.New(cfg.BackendURL, cfg.APIKey,
			backend.WithTimeout(cfg.BackendTimeoutDuration()),
			backend.WithLogger(s.log.With("component", "backend")),
		)
	}
	if s.generator == nil {
		s.generator = mockdata.New()
	}

	s.handler = s.buildHandler()
	return s
}

func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()

	forward.Mount(mux, koenote.Routes(s.generator), s.backend,
		forward.WithMode(s.mode),
		forward.WithLogger(s.log),
		forward.WithMetrics(s.metrics),
	)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /koenote/client-config", s.handleClientConfig)
	mux.Handle("GET /openapi.json", koenote.OpenAPIHandler())
	mux.Handle("GET /metrics", s.registry.Handler())

	var h http.Handler = mux
	h = withRecover(s.log, h)
	h = withCORS(s.cfg.CORSOrigins, h)
	h = withMetrics(s.metrics, h)
	h = withAccessLog(s.log, h)
	h = withRequestID(h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, types.HealthResponse{
		Status:    "healthy",
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleClientConfig(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, types.ClientConfig{
		AudioBucketName: s.cfg.AudioBucketName,
		AWSRegion:       s.cfg.AWSRegion,
		Mode:            s.mode.String(),
	})
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Mode returns the resolved runtime mode.
func (s *Server) Mode() config.Mode {
	return s.mode
}

// Registry returns the metrics registry.
func (s *Server) Registry() *metrics.Registry {
	return s.registry
}

// Addr returns the listener address once Start has succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http != nil {
		return errors.New("server is already running")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeoutDuration(),
		ReadHeaderTimeout: s.cfg.ReadTimeoutDuration(),
		WriteTimeout:      s.cfg.WriteTimeoutDuration(),
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	s.http = srv
	s.listener = ln

	s.log.Info("starting HTTP server",
		"addr", ln.Addr().String(),
		"mode", s.mode.String(),
		"backend", s.cfg.BackendURL,
	)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down. It is a no-op when not running.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.http = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Run starts the server, collects runtime metrics, and blocks until ctx is
// cancelled. It then shuts down within DefaultShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.runtime.Run(gctx, 15*time.Second)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	})
	return g.Wait()
}
