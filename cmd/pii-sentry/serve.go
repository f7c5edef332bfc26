// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pii-sentry/internal/server"
)

func newServeCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			srv := server.New(server.Config{
				Analyzer:              a.analyzer,
				Registry:              a.registry,
				Logger:                a.logger,
				DefaultScoreThreshold: cfg.Analysis.DefaultScoreThreshold,
				Gatherer:              a.prom,
			})
			return srv.Run(ctx, cfg.Server.Address)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address (overrides config)")
	return cmd
}
