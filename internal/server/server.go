// Package server provides the HTTP server and routing for the portfolio dashboard.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/config"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/di"
	benchmarkhandlers "github.com/heisenbergtrx/portfolio-dashboard/internal/modules/benchmark/handlers"
	chartshandlers "github.com/heisenbergtrx/portfolio-dashboard/internal/modules/charts/handlers"
	portfoliohandlers "github.com/heisenbergtrx/portfolio-dashboard/internal/modules/portfolio/handlers"
	riskhandlers "github.com/heisenbergtrx/portfolio-dashboard/internal/modules/risk/handlers"
	snapshothandlers "github.com/heisenbergtrx/portfolio-dashboard/internal/modules/snapshots/handlers"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container // DI container with all services
	Port      int
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	container      *di.Container
	port           int
	systemHandlers *SystemHandlers
	eventsStream   *EventsStreamHandler
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Config,
		container: cfg.Container,
		port:      cfg.Port,
		systemHandlers: NewSystemHandlers(
			cfg.Container.PortfolioDB,
			cfg.Container.RefreshService,
			cfg.Log,
		),
		eventsStream: NewEventsStreamHandler(cfg.Container.EventBus, allowedOrigins(cfg.Config), cfg.Log),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(s.cfg),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	// Websocket upgrades must not run under the request timeout
	s.router.Get("/api/events/ws", s.eventsStream.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)

		refreshSvc := s.container.RefreshService
		portfoliohandlers.NewHandler(refreshSvc, s.log).RegisterRoutes(r)
		riskhandlers.NewHandler(refreshSvc, s.log).RegisterRoutes(r)
		benchmarkhandlers.NewHandler(refreshSvc, s.log).RegisterRoutes(r)
		snapshothandlers.NewHandler(s.container.SnapshotRepo, refreshSvc, s.log).RegisterRoutes(r)
		chartshandlers.NewHandler(refreshSvc, s.container.ChartsService, s.log).RegisterRoutes(r)
	})
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func allowedOrigins(cfg *config.Config) []string {
	if cfg == nil || len(cfg.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.AllowedOrigins
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := `{"status":"ok"}`
	if err := s.container.PortfolioDB.QuickCheck(r.Context()); err != nil {
		s.log.Warn().Err(err).Msg("Health check failed")
		status = http.StatusServiceUnavailable
		body = `{"status":"unavailable"}`
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
