package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/audit"
	"github.com/raaihank/phi-cleanse/internal/catalog"
	"github.com/raaihank/phi-cleanse/internal/config"
	"github.com/raaihank/phi-cleanse/internal/detect"
	"github.com/raaihank/phi-cleanse/internal/events"
	"github.com/raaihank/phi-cleanse/internal/logger"
	"github.com/raaihank/phi-cleanse/internal/mapping"
	"github.com/raaihank/phi-cleanse/internal/sanitize"
	"github.com/raaihank/phi-cleanse/internal/server"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		healthCheck = flag.Bool("health-check", false, "Perform health check and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("phi-cleanse %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *healthCheck {
		os.Exit(runHealthCheck(cfg))
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File: &logger.FileConfig{
			Enabled:  cfg.Logging.File.Enabled,
			Path:     cfg.Logging.File.Path,
			MaxSize:  cfg.Logging.File.MaxSize,
			MaxAge:   cfg.Logging.File.MaxAge,
			Compress: cfg.Logging.File.Compress,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting phi-cleanse",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port))

	cat := catalog.Load(cfg.Engine.CatalogPath, log.WithComponent("catalog").Logger)
	detector := detect.New(cat, cfg.Engine.FuzzyThreshold, log.WithComponent("detect").Logger)

	store, closeStore, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize mapping store", zap.Error(err))
	}
	defer closeStore()

	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		recorder, err = audit.NewRecorder(cfg.Audit, log.WithComponent("audit").Logger)
		if err != nil {
			log.Fatal("Failed to initialize audit recorder", zap.Error(err))
		}
		defer recorder.Close()
	}

	var hub *events.Hub
	if cfg.Events.Enabled {
		hub = events.NewHub(cfg.Events, log.WithComponent("events").Logger)
		go hub.Run()
	}

	srv := server.New(server.Options{
		Config:   cfg,
		Detector: detector,
		Store:    store,
		Sanitize: sanitize.Options{
			Logger:     log.WithComponent("sanitize").Logger,
			DatePolicy: sanitize.DatePolicy(cfg.Engine.UnparsableDates),
		},
		Hub:      hub,
		Recorder: recorder,
	}, log.WithComponent("server").Logger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", zap.Error(err))

	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
			os.Exit(1)
		}
		log.Info("Server stopped")
	}
}

// buildStore selects the mapping persistence backend from configuration
func buildStore(cfg *config.Config, log *logger.Logger) (mapping.Store, func(), error) {
	switch cfg.Mappings.Backend {
	case "redis":
		store, err := mapping.NewRedisStore(
			cfg.Mappings.Redis.URL,
			cfg.Mappings.Redis.KeyPrefix,
			log.WithComponent("mapping").Logger,
		)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store := mapping.NewFileStore(cfg.Mappings.Dir, log.WithComponent("mapping").Logger)
		return store, func() {}, nil
	}
}

// runHealthCheck probes the local server's health endpoint
func runHealthCheck(cfg *config.Config) int {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: status %d\n", resp.StatusCode)
		return 1
	}
	fmt.Println("OK")
	return 0
}
