// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"pii-sentry/internal/config"
	"pii-sentry/internal/engine"
	"pii-sentry/internal/enhancer"
	"pii-sentry/internal/logging"
	"pii-sentry/internal/metrics"
	"pii-sentry/internal/nlp"
	"pii-sentry/internal/recognizers"
	"pii-sentry/internal/recognizers/remote"
	"pii-sentry/internal/registry"
	"pii-sentry/internal/store"
)

// app bundles the assembled pipeline for the commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	analyzer *engine.Analyzer
	registry *registry.Registry
	prom     *prometheus.Registry

	closers []func() error
}

// buildApp assembles the full pipeline from configuration.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, prom: prometheus.NewRegistry()}
	m := metrics.New(a.prom)

	var nlpEngine nlp.Engine
	switch cfg.NLP.Mode {
	case "sidecar":
		nlpEngine = nlp.NewSidecarEngine(cfg.NLP.SidecarURL, cfg.NLP.Timeout, logger)
	default:
		nlpEngine = nlp.NewLexicalEngine()
	}

	enh := enhancer.New(nlpEngine)

	builtins, err := recognizers.BuildRecognizerSet(cfg.Analysis.EnabledRecognizers, enh)
	if err != nil {
		return nil, err
	}

	remoteConfigs := make([]remote.Config, 0, len(cfg.Remote))
	for _, rc := range cfg.Remote {
		remoteConfigs = append(remoteConfigs, remote.Config{
			Name:     rc.Name,
			URL:      rc.URL,
			Entities: rc.Entities,
			Language: rc.Language,
			Timeout:  rc.Timeout,
		})
	}
	remotes, err := recognizers.BuildRemoteRecognizers(remoteConfigs)
	if err != nil {
		return nil, err
	}

	var recStore store.RecognizerStore
	switch cfg.Store.Backend {
	case "file":
		fs, err := store.NewFileStore(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		recStore = fs
	case "redis":
		rs, err := store.NewRedisStore(ctx, cfg.Store.RedisAddr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		recStore = rs
	}

	a.registry = registry.New(registry.Config{
		Builtins:  builtins,
		Remotes:   remotes,
		Store:     recStore,
		Enhancer:  enh,
		Logger:    logger,
		OnRefresh: m.CustomRefreshes.Inc,
	})

	a.analyzer, err = engine.New(engine.Config{
		Registry: a.registry,
		NLP:      nlpEngine,
		Logger:   logger,
		Metrics:  m,
		Workers:  cfg.Analysis.Workers,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
