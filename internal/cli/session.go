package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"leaguestore/internal/blob"
	"leaguestore/internal/config"
	"leaguestore/internal/core"
	"leaguestore/internal/observability"
)

// session is an opened service plus the settings it was built from.
type session struct {
	cfg    config.Config
	svc    *core.Service
	logger *zap.SugaredLogger
}

func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Read(o.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.Driver != "" {
		cfg.Storage.Driver = blob.Driver(o.Driver)
	}
	if o.DataDir != "" {
		cfg.Storage.FSRoot = o.DataDir
	}
	return cfg, cfg.Validate()
}

func (o *RootOptions) open(ctx context.Context, extra ...core.Option) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	b, err := blob.Open(ctx, cfg.BlobOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	opts := append(cfg.ServiceOptions(), core.WithLogger(logger))
	opts = append(opts, extra...)
	return &session{cfg: cfg, svc: core.NewService(b, opts...), logger: logger}, nil
}

func (s *session) Close() error { return s.svc.Close() }
