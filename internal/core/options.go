package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"leaguestore/internal/query"
)

// MetricsRecorder captures the outcome of service operations. Operation
// names have the form "<entity>.<op>", e.g. "team.update".
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

// Keys names the backing object of each entity.
type Keys struct {
	Teams   string
	Players string
	Games   string
}

// DefaultKeys returns the conventional file names.
func DefaultKeys() Keys {
	return Keys{Teams: "teams.csv", Players: "players.csv", Games: "games.csv"}
}

type config struct {
	logger       *zap.SugaredLogger
	metrics      MetricsRecorder
	writerLock   bool
	keys         Keys
	defaultLimit int
}

// Option customizes service and collection construction.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		logger:       zap.NewNop().Sugar(),
		metrics:      noopMetrics{},
		keys:         DefaultKeys(),
		defaultLimit: query.DefaultLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder. A nil recorder is ignored.
func WithMetrics(recorder MetricsRecorder) Option {
	return func(c *config) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithWriterLock makes each entity hold a mutex across load-apply-save, so
// concurrent writers in this process no longer lose updates.
func WithWriterLock() Option {
	return func(c *config) { c.writerLock = true }
}

// WithKeys overrides the backing object keys. Empty entries keep their defaults.
func WithKeys(keys Keys) Option {
	return func(c *config) {
		if keys.Teams != "" {
			c.keys.Teams = keys.Teams
		}
		if keys.Players != "" {
			c.keys.Players = keys.Players
		}
		if keys.Games != "" {
			c.keys.Games = keys.Games
		}
	}
}

// WithDefaultLimit sets the page size used when a query names none.
// Non-positive values are ignored.
func WithDefaultLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.defaultLimit = n
		}
	}
}
