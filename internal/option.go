package internal

import (
	"log/slog"

	"github.com/soundforge/beatscan/internal/store"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	logger *slog.Logger
	store  store.SampleStore
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger overrides the default JSON logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithStore injects a pre-opened backing store, mainly for tests.
func WithStore(st store.SampleStore) Option {
	return func(a *application) {
		a.store = st
	}
}
