// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pii-sentry/internal/engine"
	"pii-sentry/internal/extract"
	"pii-sentry/internal/recognizer"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		file      string
		language  string
		entities  []string
		threshold float64
		asJSON    bool
		explain   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Scan text or a file for PII",
		Long:  "Scans the given text, or the contents of --file (plain text or PDF), and prints the findings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (file == "") {
				return fmt.Errorf("provide either a text argument or --file")
			}

			text := ""
			if file != "" {
				extracted, err := extract.FromFile(file)
				if err != nil {
					return err
				}
				text = extracted
			} else {
				text = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if threshold < 0 {
				threshold = cfg.Analysis.DefaultScoreThreshold
			}
			if language == "" {
				language = cfg.Analysis.DefaultLanguage
			}

			ctx := context.Background()
			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.analyzer.Analyze(ctx, engine.Request{
				Text:                  text,
				Language:              language,
				Entities:              entities,
				AllEntities:           len(entities) == 0,
				ScoreThreshold:        threshold,
				ReturnDecisionProcess: explain,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(resp.Findings)
			}
			printFindings(text, resp.Findings)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file to scan instead of a text argument")
	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the text")
	cmd.Flags().StringSliceVarP(&entities, "entities", "e", nil, "entity types to detect (default: all)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", -1, "minimum score to report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit findings as JSON")
	cmd.Flags().BoolVar(&explain, "explain", false, "include scoring explanations")
	return cmd
}

func printFindings(text string, findings []recognizer.Result) {
	if len(findings) == 0 {
		color.Green("No PII found.")
		return
	}

	entityColor := color.New(color.FgYellow, color.Bold)
	for _, f := range findings {
		fmt.Printf("%s  score=%.2f  span=[%d:%d]  %q\n",
			entityColor.Sprint(f.EntityType), f.Score, f.Start, f.End, text[f.Start:f.End])
		if f.Explanation != nil {
			fmt.Printf("    recognizer=%s pattern=%s base=%.2f",
				f.Explanation.Recognizer, f.Explanation.PatternName, f.Explanation.OriginalScore)
			if f.Explanation.ChecksumPassed {
				fmt.Printf(" checksum=passed")
			}
			if f.Explanation.SupportiveContextWord != "" {
				fmt.Printf(" context=%q", f.Explanation.SupportiveContextWord)
			}
			fmt.Println()
		}
	}
	color.Cyan("%d finding(s).", len(findings))
}
