// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract turns input files into plain text for analysis. Plain text
// files are passed through; PDF documents have their text content extracted
// page by page.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxPages bounds PDF processing so a pathological document cannot stall a
// scan.
const maxPages = 50

// FromFile reads path and returns its text content, dispatching on the file
// extension.
func FromFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return fromPDF(path)
	default:
		return fromPlainText(path)
	}
}

func fromPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", path)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("%s: binary content", path)
	}
	return string(data), nil
}
