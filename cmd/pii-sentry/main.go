// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// pii-sentry detects personally identifiable information in text. It runs
// either as an HTTP service (serve) or as a one-shot scanner over text and
// files (analyze).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "pii-sentry",
		Short:         "PII detection engine",
		Long:          "Detects personally identifiable information in text using pattern, checksum, context and NER based recognizers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(newServeCommand())
	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newRecognizersCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
