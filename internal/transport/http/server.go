package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bomi-coder/liar-game/internal/app"
	"github.com/bomi-coder/liar-game/internal/config"
	"github.com/bomi-coder/liar-game/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	hub    *app.RoomHub
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, hub *app.RoomHub, logger *slog.Logger) *Server {
	s := &Server{
		hub:    hub,
		config: cfg,
		logger: logger,
	}

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// routes configures the router
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.AllowAll().Handler)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/rooms", s.handleCreateRoom)
		r.Get("/rooms/{roomCode}", s.handleGetRoom)
		r.Get("/rooms/{roomCode}/exists", s.handleRoomExists)
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
	})

	wsHandler := ws.NewHandler(s.hub, s.logger)
	r.Get("/ws", wsHandler.ServeHTTP)

	return r
}

// requestLogger logs each request with its status and duration
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}
