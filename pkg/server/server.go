// Package server is the push channel endpoint hosts forward layout events to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/sidenav/pkg/layout"
	"tableflip.dev/sidenav/pkg/logging"
	"tableflip.dev/sidenav/pkg/metric"
	"tableflip.dev/sidenav/pkg/prefs"
	"tableflip.dev/sidenav/pkg/push"
)

const (
	// DefaultAddr is used when Config.Addr is empty.
	DefaultAddr = ":8086"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 5 * time.Second
)

// Config holds server configuration.
type Config struct {
	Addr     string
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server serves the preference API and the websocket push channel.
type Server struct {
	cfg     Config
	store   *prefs.Store
	layout  *layout.Preferences
	metrics *metric.Set
	log     *zap.Logger
	hub     *hub
	router  chi.Router

	httpServer *http.Server
}

// New wires a server around store. metrics may be nil. Preference writes are
// counted by the store itself, see prefs.WithWriteCounter.
func New(cfg Config, store *prefs.Store, metrics *metric.Set, log *zap.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if metrics == nil {
		metrics = metric.NewSet()
	}
	log = logging.OrNop(log)
	s := &Server{
		cfg:     cfg,
		store:   store,
		layout:  layout.New(store, nil),
		metrics: metrics,
		log:     log,
		hub:     newHub(log),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/preferences", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{key}", s.handleGet)
		r.Put("/{key}", s.handlePut)
	})

	r.Get("/ws", s.handleSocket)
	return r
}

// Router returns the chi router, mostly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully. When the
// store is disk-backed, record changes made by other processes are pushed to
// connected sessions.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server: listening", zap.String("addr", s.cfg.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		s.hub.closeAll()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})

	if changes, err := s.store.Watch(gctx); err != nil {
		s.log.Debug("server: preference watch disabled", zap.Error(err))
	} else {
		g.Go(func() error {
			for range changes {
				s.hub.broadcast(s.preferencesMessage(), "")
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *Server) preferencesMessage() push.Message {
	return push.Message{Event: push.PreferencesEvent, Detail: s.store.All()}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.All())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	v, ok := s.store.Get(key)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "preference not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": v})
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var v any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON value"})
		return
	}
	s.store.Set(key, v)
	s.hub.broadcast(s.preferencesMessage(), "")
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": v})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
