package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vdiff/pkg/middleware"
	"github.com/vango-dev/vdiff/pkg/snapshot"
)

const tracerName = "github.com/vango-dev/vdiff/pkg/server"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStore sets the snapshot store (default an in-memory store).
func WithStore(store snapshot.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithRegistry sets the Prometheus registry the server registers its
// collectors in and serves on /metrics (default a fresh registry with the
// Go and process collectors).
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithTracerProvider sets the tracer provider (default the global one).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracerProvider = tp
	}
}

// Server serves mounts over HTTP and WebSocket.
type Server struct {
	cfg            *Config
	logger         *slog.Logger
	store          snapshot.Store
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider

	metrics  *metrics
	mounts   *mounts
	upgrader websocket.Upgrader
	router   chi.Router

	mu         sync.Mutex
	httpServer *http.Server
	streams    sync.WaitGroup
}

// New creates a server. cfg may be nil for defaults.
func New(cfg *Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{cfg: cfg.withDefaults()}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.store == nil {
		s.store = snapshot.NewMemory()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if s.tracerProvider == nil {
		s.tracerProvider = otel.GetTracerProvider()
	}

	s.metrics = newMetrics(s.registry)
	tracer := s.tracerProvider.Tracer(tracerName)
	s.mounts = newMounts(func(id string) (*Mount, error) {
		return newMount(id, s.cfg, s.metrics, tracer, s.logger)
	}, s.metrics.mounts.Inc)

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.cfg.CheckOrigin,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.Prometheus(middleware.WithRegistry(s.registry)))
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerProvider(s.tracerProvider),
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics" && r.URL.Path != "/healthz"
		}),
	))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/snapshots", s.handleListSnapshots)

	r.Route("/mounts", func(r chi.Router) {
		r.Get("/", s.handleListMounts)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.handleCreateMount)
			r.Get("/", s.handleHTML)
			r.Get("/tree", s.handleTree)
			r.Post("/render", s.handleRender)
			r.Get("/ws", s.handleStream)
			r.Post("/snapshot", s.handleSaveSnapshot)
			r.Get("/snapshot", s.handleLoadSnapshot)
		})
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Mount returns the mount with id, creating it if needed.
func (s *Server) Mount(id string) (*Mount, error) {
	m, _, err := s.mounts.Ensure(id)
	return m, err
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests, disconnects every subscriber and
// waits for in-flight requests and streams to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	// Hijacked connections are not tracked by http.Server.
	s.mounts.closeAll()
	done := make(chan struct{})
	go func() {
		s.streams.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}
