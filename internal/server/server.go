// Package server exposes the de-identification engine over HTTP: detection
// and sanitization endpoints, configuration management, and the WebSocket
// event stream.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/audit"
	"github.com/raaihank/phi-cleanse/internal/config"
	"github.com/raaihank/phi-cleanse/internal/detect"
	"github.com/raaihank/phi-cleanse/internal/events"
	"github.com/raaihank/phi-cleanse/internal/mapping"
	"github.com/raaihank/phi-cleanse/internal/processor"
	"github.com/raaihank/phi-cleanse/internal/sanitize"
)

// Server is the HTTP front end of the engine
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	detector *detect.Detector
	store    mapping.Store
	sanOpts  sanitize.Options
	hub      *events.Hub
	recorder *audit.Recorder

	httpServer  *http.Server
	router      *mux.Router
	rateLimiter *rateLimiter
	startTime   time.Time
}

// Options collects the engine components the server serves
type Options struct {
	Config   *config.Config
	Detector *detect.Detector
	Store    mapping.Store
	Sanitize sanitize.Options
	Hub      *events.Hub      // may be nil when events are disabled
	Recorder *audit.Recorder  // may be nil when audit is disabled
}

// New creates the HTTP server and wires its routes
func New(opts Options, logger *zap.Logger) *Server {
	s := &Server{
		config:    opts.Config,
		logger:    logger,
		detector:  opts.Detector,
		store:     opts.Store,
		sanOpts:   opts.Sanitize,
		hub:       opts.Hub,
		recorder:  opts.Recorder,
		router:    mux.NewRouter(),
		startTime: time.Now(),
	}

	if opts.Config.Server.RateLimit.Enabled {
		s.rateLimiter = newRateLimiter(
			opts.Config.Server.RateLimit.RequestsPerMin,
			opts.Config.Server.RateLimit.Burst,
			logger,
		)
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  opts.Config.Server.ReadTimeout,
		WriteTimeout: opts.Config.Server.WriteTimeout,
		IdleTimeout:  opts.Config.Server.IdleTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	if s.rateLimiter != nil {
		s.router.Use(s.rateLimitMiddleware)
	}

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/info", s.handleInfo).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/detect", s.handleDetect).Methods(http.MethodPost)
	api.HandleFunc("/sanitize", s.handleSanitize).Methods(http.MethodPost)
	api.HandleFunc("/configurations", s.handleListConfigurations).Methods(http.MethodGet)
	api.HandleFunc("/configurations/{name}", s.handleGetConfiguration).Methods(http.MethodGet)
	api.HandleFunc("/configurations/{name}", s.handlePutConfiguration).Methods(http.MethodPut)

	if s.hub != nil {
		s.router.HandleFunc(s.config.Events.Path, s.hub.HandleWebSocket)
	}
}

// Start begins serving. It blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.Int("port", s.config.Server.Port),
		zap.Bool("events", s.hub != nil),
		zap.Bool("audit", s.recorder != nil))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}
	return s.httpServer.Shutdown(ctx)
}

// newProcessor builds a request-scoped processor. Processors are not safe
// for concurrent use, so each request gets its own.
func (s *Server) newProcessor() *processor.Processor {
	return processor.New(
		s.detector,
		s.store,
		s.sanOpts,
		s.config.Engine.ConfigsDir,
		s.observer(),
		s.logger,
	)
}
