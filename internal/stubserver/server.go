package stubserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"orchid-storefront/internal/config"
)

// NewRouter builds the stub backend handler. Exposed separately from the
// server so tests can mount it on httptest.
func NewRouter(store *Store, jwtSecret string, logger *zap.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Compress(5))
	router.Use(recovererMiddleware(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	NewHandlers(store, jwtSecret, logger).RegisterRoutes(router)

	return router
}

// Server is the stub backend HTTP server.
type Server struct {
	*http.Server
	logger *zap.Logger
}

// NewServer creates the stub backend with a seeded store.
func NewServer(cfg config.StubConfig, logger *zap.Logger) *Server {
	store := NewStore()
	store.Seed()

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Port),
			Handler:      NewRouter(store, cfg.JWTSecret, logger),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")
	s.logger.Sync()
	return nil
}
