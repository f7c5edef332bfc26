// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pii-sentry/internal/engine"
	"pii-sentry/internal/registry"
)

// Server wires the HTTP boundary to the analyzer and registry.
type Server struct {
	analyzer *engine.Analyzer
	registry *registry.Registry
	logger   *zap.Logger

	defaultThreshold float64
	gatherer         prometheus.Gatherer
}

// Config assembles a Server.
type Config struct {
	Analyzer *engine.Analyzer
	Registry *registry.Registry
	Logger   *zap.Logger

	// DefaultScoreThreshold applies when a request carries none.
	DefaultScoreThreshold float64

	// Gatherer backs the /metrics endpoint.
	Gatherer prometheus.Gatherer
}

// New builds a Server from cfg.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.NewRegistry()
	}
	return &Server{
		analyzer:         cfg.Analyzer,
		registry:         cfg.Registry,
		logger:           logger,
		defaultThreshold: cfg.DefaultScoreThreshold,
		gatherer:         gatherer,
	}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	r.POST("/analyze", s.handleAnalyze)
	r.GET("/recognizers", s.handleRecognizers)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var g errgroup.Group
	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("address", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
