// Package server exposes the hover engine over HTTP.
//
// Figures are stored once and hovered by ID. Stateless clients post hover
// events together with a session ID; the server rebuilds the plot, restores
// the session from the session store and returns the result with its
// change flags. Interactive clients open a WebSocket stream instead and
// receive throttled hover and unhover notifications from a plot kept for
// the lifetime of the connection.
//
// # Routes
//
//	GET    /healthz
//	GET    /figures
//	POST   /figures
//	GET    /figures/{id}
//	DELETE /figures/{id}
//	POST   /figures/{id}/hover
//	POST   /figures/{id}/unhover
//	GET    /figures/{id}/hover.svg?x=&y=&mode=&subplot=
//	GET    /figures/{id}/stream
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/hoverfx/pkg/cache"
	"github.com/matzehuels/hoverfx/pkg/pipeline"
	"github.com/matzehuels/hoverfx/pkg/session"
	"github.com/matzehuels/hoverfx/pkg/storage"
	"github.com/matzehuels/hoverfx/pkg/throttle"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves the hover API.
type Server struct {
	cfg      *Config
	figures  storage.Store
	sessions session.Store
	runner   *pipeline.Runner
	sched    *throttle.Scheduler
	logger   *log.Logger
}

// New creates a server over the given backends.
func New(cfg *Config, figures storage.Store, sessions session.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:      cfg,
		figures:  figures,
		sessions: sessions,
		runner:   runner,
		sched:    throttle.New(nil),
		logger:   logger,
	}
}

// Open connects the backends named by cfg and creates a server. Redis
// backs the response cache and the sessions, MongoDB the figures; either
// falls back to process memory when unset.
func Open(ctx context.Context, cfg *Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	var (
		c        cache.Cache
		sessions session.Store
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		c = cache.NewRedisCache(rdb)
		sessions = session.NewRedisStore(rdb, "")
		logger.Info("using redis", "addr", cfg.RedisAddr)
	} else {
		mc, err := cache.NewMemoryCache(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		c = mc
		sessions = session.NewMemoryStore()
	}

	var figures storage.Store
	if cfg.MongoURI != "" {
		ms, err := storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			c.Close()
			return nil, err
		}
		figures = ms
		logger.Info("using mongodb", "db", cfg.MongoDB)
	} else {
		figures = storage.NewMemoryStore()
	}

	return New(cfg, figures, sessions, pipeline.NewRunner(c, nil, logger), logger), nil
}

// Handler returns the HTTP handler with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.corsHandler())

	r.Get("/healthz", s.handleHealth)

	r.Route("/figures", func(r chi.Router) {
		r.Get("/", s.handleListFigures)
		r.Post("/", s.handleCreateFigure)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetFigure)
			r.Delete("/", s.handleDeleteFigure)
			r.Post("/hover", s.handleHover)
			r.Post("/unhover", s.handleUnhover)
			r.Get("/hover.svg", s.handleHoverSVG)
			r.Get("/stream", s.handleStream)
		})
	})

	return r
}

// ListenAndServe serves on cfg.ListenAddr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr(),
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// sweepSessions drops expired sessions once per session TTL.
func (s *Server) sweepSessions(ctx context.Context) {
	ttl := s.sessionTTL()
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

// Close releases the backends.
func (s *Server) Close(ctx context.Context) error {
	s.sched.ClearAll()
	return errors.Join(s.runner.Close(), s.figures.Close(ctx))
}

func (s *Server) sessionTTL() time.Duration {
	if s.cfg.SessionTTL > 0 {
		return s.cfg.SessionTTL
	}
	return session.DefaultTTL
}

func (s *Server) cacheTTL() time.Duration {
	if s.cfg.CacheTTL > 0 {
		return s.cfg.CacheTTL
	}
	return pipeline.DefaultTTL
}
