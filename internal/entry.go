// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/soundforge/beatscan/internal/analyze"
	"github.com/soundforge/beatscan/internal/api"
	"github.com/soundforge/beatscan/internal/scanner"
	"github.com/soundforge/beatscan/internal/sse"
	"github.com/soundforge/beatscan/internal/store"
)

// NewLogger builds the structured JSON logger used across the app.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// BuildAnalyzer wires the per-file analyzer's external collaborators
// according to the analyzer configuration.
func BuildAnalyzer(cfg *Config, logger *slog.Logger) *analyze.Analyzer {
	var opts []analyze.Option
	if cfg.Analyzer.ReadTags {
		opts = append(opts, analyze.WithTagReader(analyze.FileTagReader{}))
	}
	if cfg.Analyzer.DetectTempo {
		opts = append(opts, analyze.WithTempoEstimator(analyze.NewAubio(cfg.Analyzer.AubioBin)))
	}
	if cfg.Analyzer.DetectKey {
		opts = append(opts, analyze.WithKeyEstimator(analyze.NewAubio(cfg.Analyzer.AubioBin)))
	}
	opts = append(opts, analyze.WithSpectrogramRenderer(analyze.NewFFmpegRenderer(cfg.Analyzer.FFmpegBin)))

	return analyze.New(analyze.NewFFprobe(cfg.Analyzer.FFprobeBin), logger, opts...)
}

// BuildService wires the batch coordinator on top of the analyzer and
// an optional store.
func BuildService(cfg *Config, st store.SampleStore, logger *slog.Logger) *scanner.Service {
	return scanner.NewService(
		BuildAnalyzer(cfg, logger),
		st,
		logger,
		scanner.WithWorkers(cfg.Scanner.Workers),
		scanner.WithTaskTimeout(time.Duration(cfg.Analyzer.TimeoutSeconds)*time.Second),
	)
}

// Run starts the HTTP server (and optional library watcher) with the
// given options and blocks until shutdown.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = NewLogger(cfg.App.LogLevel)
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("library_path", cfg.Library.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	st := app.store
	if st == nil {
		db, err := store.Open(cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer db.Close()
		st = db
	}

	svc := BuildService(cfg, st, logger)

	// SSE broker for watch-mode registration events.
	broker := sse.NewBroker()
	defer broker.Close()

	// Build API router.
	apiRouter := api.NewRouter(svc, logger, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start library watcher when configured.
	if cfg.Library.Watch && cfg.Library.Path != "" {
		g.Go(func() error {
			err := scanner.Watch(gCtx, svc, cfg.Library.Path,
				cfg.Library.UserID, cfg.Library.ProjectID, logger,
				broker.PublishSampleEvent)
			if err != nil {
				logger.Warn("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
