package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/procmap-labs/procmap-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	authService    driving.AuthService
	importService  driving.ImportService
	processService driving.ProcessService
	diagramService driving.DiagramService

	// Infrastructure
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
	Logger         *slog.Logger // nil falls back to slog.Default
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		AllowedOrigins: []string{"*"},
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	importService driving.ImportService,
	processService driving.ProcessService,
	diagramService driving.DiagramService,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		logger:         logger,
		authService:    authService,
		importService:  importService,
		processService: processService,
		diagramService: diagramService,
		db:             db,
		redisClient:    redisClient,
	}

	handler := Chain(
		CORS(cfg.AllowedOrigins),
		PanicRecovery(logger),
		RequestLogging(logger),
	)(s.router)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	requireAuth := RequireAuth(s.authService)
	requireAdmin := RequireAdmin()

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// Setup endpoint (public, one-time use)
	s.router.HandleFunc("POST /api/v1/setup", s.handleSetup)

	// Auth endpoints (authenticated)
	s.router.Handle("POST /api/v1/auth/logout",
		requireAuth(http.HandlerFunc(s.handleLogout)))

	// Import endpoints
	s.router.Handle("POST /api/v1/processes/import",
		requireAuth(http.HandlerFunc(s.handleImport)))
	s.router.Handle("POST /api/v1/processes/import/async",
		requireAuth(http.HandlerFunc(s.handleImportAsync)))
	s.router.Handle("GET /api/v1/tasks/{id}",
		requireAuth(http.HandlerFunc(s.handleGetTask)))

	// Process endpoints
	s.router.Handle("GET /api/v1/processes",
		requireAuth(http.HandlerFunc(s.handleListProcesses)))
	s.router.Handle("GET /api/v1/processes/{id}",
		requireAuth(http.HandlerFunc(s.handleGetProcess)))
	s.router.Handle("DELETE /api/v1/processes/{id}",
		requireAuth(requireAdmin(http.HandlerFunc(s.handleDeleteProcess))))
	s.router.Handle("GET /api/v1/processes/{id}/steps",
		requireAuth(http.HandlerFunc(s.handleGetProcessSteps)))

	// Diagram endpoints
	s.router.Handle("GET /api/v1/processes/{id}/diagram",
		requireAuth(http.HandlerFunc(s.handleDownloadDiagram)))
	s.router.Handle("POST /api/v1/diagram/preview",
		requireAuth(http.HandlerFunc(s.handlePreviewDiagram)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
