package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/config"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/metrics"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	sessionMaxIdle  = time.Hour
	cleanupInterval = 10 * time.Minute
)

// Dialer opens a router connection for a new session.
type Dialer func(ctx context.Context, host, user, password string) (session.Router, error)

type Server struct {
	pipeline   *session.Pipeline
	dial       Dialer
	credential string
	port       int
	logger     zerolog.Logger
	store      *session.Store
	config     *config.Config
	metrics    *metrics.Metrics
}

func NewServer(pipeline *session.Pipeline, dial Dialer, credential string, logger zerolog.Logger, cfg *config.Config, m *metrics.Metrics) *Server {
	return &Server{
		pipeline:   pipeline,
		dial:       dial,
		credential: credential,
		port:       cfg.ServerPort,
		logger:     logger,
		store:      session.NewStore(logger),
		config:     cfg,
		metrics:    m,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/metrics", s.metrics.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.apiKeyMiddleware)

			r.Post("/sessions", s.handleCreateSession)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Delete("/", s.handleDeleteSession)
				r.Post("/chat", s.handleChat)
				r.Get("/transcript", s.handleTranscript)
				r.Post("/reboot", s.handleReboot)
			})
		})
	})

	return r
}

func (s *Server) Start() error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	stopCleanup := make(chan struct{})
	go s.cleanupLoop(stopCleanup)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		s.logger.Info().Msg("shutting down server")
		close(stopCleanup)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown failed")
		}
		s.store.CloseAll()
	}()

	s.logger.Info().Int("port", s.port).Msg("starting API server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) cleanupLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := s.store.Cleanup(sessionMaxIdle); n > 0 {
				s.logger.Info().Int("sessions", n).Msg("expired idle sessions")
			}
		}
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.config.ValidateAPIKey(r.Header.Get("X-API-Key")) {
			s.writeError(w, "invalid or missing API key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
