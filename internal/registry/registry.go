// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package registry owns the live recognizer set: the predefined recognizers
// built at startup plus custom recognizers refreshed from a store. Every
// recognizer is wrapped for lazy loading, so expensive initialization runs
// on first use and at most once per process.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"pii-sentry/internal/recognizer"
	"pii-sentry/internal/store"
)

// Registry holds recognizers and answers selection queries per request.
type Registry struct {
	builtins []*recognizer.Lazy
	remotes  []*recognizer.Lazy

	store    store.RecognizerStore
	enhancer recognizer.ContextEnhancer
	logger   *zap.Logger

	refresh singleflight.Group

	mu       sync.RWMutex
	custom   []*recognizer.Lazy
	loadedAt int64

	onRefresh func() // metrics hook, may be nil
}

// Config assembles a Registry.
type Config struct {
	Builtins []recognizer.EntityRecognizer
	Remotes  []recognizer.EntityRecognizer

	// Store supplies custom recognizer definitions. Nil disables the
	// custom recognizer mechanism entirely.
	Store store.RecognizerStore

	// Enhancer is wired into compiled custom recognizers.
	Enhancer recognizer.ContextEnhancer

	Logger *zap.Logger

	// OnRefresh is invoked after each completed custom recognizer reload.
	OnRefresh func()
}

// New builds a Registry, lazily wrapping every recognizer.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		store:     cfg.Store,
		enhancer:  cfg.Enhancer,
		logger:    logger,
		onRefresh: cfg.OnRefresh,
	}
	for _, rec := range cfg.Builtins {
		r.builtins = append(r.builtins, recognizer.NewLazy(rec))
	}
	for _, rec := range cfg.Remotes {
		r.remotes = append(r.remotes, recognizer.NewLazy(rec))
	}
	return r
}

// Select returns the recognizers that apply to one request: the language
// must match exactly and, when an entity filter is given, the recognizer
// must support at least one requested entity. A requested entity that no
// recognizer covers is logged, not fatal; an empty final selection is.
func (r *Registry) Select(ctx context.Context, language string, entities []string) ([]*recognizer.Lazy, error) {
	if language == "" {
		return nil, fmt.Errorf("%w: language is required", recognizer.ErrInvalidRequest)
	}

	r.refreshCustom(ctx)

	candidates := r.snapshot()
	selected := make([]*recognizer.Lazy, 0, len(candidates))
	covered := make(map[string]bool, len(entities))

	for _, rec := range candidates {
		if rec.SupportedLanguage() != language {
			continue
		}
		if len(entities) == 0 {
			selected = append(selected, rec)
			continue
		}
		matches := false
		for _, supported := range rec.SupportedEntities() {
			for _, requested := range entities {
				if supported == requested {
					matches = true
					covered[requested] = true
				}
			}
		}
		if matches {
			selected = append(selected, rec)
		}
	}

	for _, requested := range entities {
		if !covered[requested] {
			r.logger.Warn("no recognizer covers requested entity",
				zap.String("entity", requested),
				zap.String("language", language))
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w for language %q", recognizer.ErrNoRecognizersAvailable, language)
	}
	return selected, nil
}

// Infos returns the capability records of every registered recognizer,
// optionally filtered by language. Used by the introspection endpoint.
func (r *Registry) Infos(ctx context.Context, language string) []recognizer.Info {
	r.refreshCustom(ctx)

	r.mu.RLock()
	custom := r.custom
	r.mu.RUnlock()

	infos := make([]recognizer.Info, 0, len(r.builtins)+len(r.remotes)+len(custom))
	appendInfo := func(rec *recognizer.Lazy, isCustom, isRemote bool) {
		if language != "" && rec.SupportedLanguage() != language {
			return
		}
		infos = append(infos, recognizer.Info{
			Name:     rec.Name(),
			Entities: rec.SupportedEntities(),
			Language: rec.SupportedLanguage(),
			Version:  rec.Version(),
			IsLoaded: rec.IsLoaded(),
			IsCustom: isCustom,
			IsRemote: isRemote,
		})
	}
	for _, rec := range r.builtins {
		appendInfo(rec, false, false)
	}
	for _, rec := range r.remotes {
		appendInfo(rec, false, true)
	}
	for _, rec := range custom {
		appendInfo(rec, true, false)
	}
	return infos
}

// snapshot returns the current full recognizer list under the read lock.
func (r *Registry) snapshot() []*recognizer.Lazy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*recognizer.Lazy, 0, len(r.builtins)+len(r.remotes)+len(r.custom))
	all = append(all, r.builtins...)
	all = append(all, r.remotes...)
	all = append(all, r.custom...)
	return all
}

// refreshCustom reloads custom recognizers when the store's change timestamp
// has advanced past the last load. Concurrent requests share one reload via
// singleflight; a failing store keeps the previous set, so a store outage
// degrades freshness, not availability.
func (r *Registry) refreshCustom(ctx context.Context) {
	if r.store == nil {
		return
	}

	r.refresh.Do("custom", func() (interface{}, error) {
		latest, err := r.store.LatestTimestamp(ctx)
		if err != nil {
			r.logger.Warn("custom recognizer store unreachable, keeping previous set", zap.Error(err))
			return nil, nil
		}

		r.mu.RLock()
		loadedAt := r.loadedAt
		r.mu.RUnlock()
		if loadedAt > 0 && latest <= loadedAt {
			return nil, nil
		}

		defs, err := r.store.AllRecognizers(ctx)
		if err != nil {
			r.logger.Warn("custom recognizer reload failed, keeping previous set", zap.Error(err))
			return nil, nil
		}

		compiled := make([]*recognizer.Lazy, 0, len(defs))
		for _, def := range defs {
			rec, err := def.Compile(r.enhancer)
			if err != nil {
				// One bad definition must not take down the rest.
				r.logger.Error("skipping invalid custom recognizer", zap.String("name", def.Name), zap.Error(err))
				continue
			}
			compiled = append(compiled, recognizer.NewLazy(rec))
		}

		r.mu.Lock()
		r.custom = compiled
		r.loadedAt = time.Now().Unix()
		r.mu.Unlock()

		r.logger.Info("custom recognizers reloaded", zap.Int("count", len(compiled)))
		if r.onRefresh != nil {
			r.onRefresh()
		}
		return nil, nil
	})
}
