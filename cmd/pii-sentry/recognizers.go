// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRecognizersCommand() *cobra.Command {
	var (
		language string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "recognizers",
		Short: "List the configured recognizers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			infos := a.registry.Infos(ctx, language)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			nameColor := color.New(color.FgCyan, color.Bold)
			for _, info := range infos {
				kind := "builtin"
				if info.IsCustom {
					kind = "custom"
				} else if info.IsRemote {
					kind = "remote"
				}
				fmt.Printf("%s  [%s, %s]  %s\n",
					nameColor.Sprint(info.Name), kind, info.Language,
					strings.Join(info.Entities, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "filter by language")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit as JSON")
	return cmd
}
