// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// FileStore reads custom recognizer definitions from a YAML file. The file's
// modification time serves as the change timestamp, so editing the file is
// enough to trigger a refresh. A missing file is an empty store, not an
// error: operators may point at a path they will populate later.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: path is required")
	}
	return &FileStore{path: path}, nil
}

type fileDocument struct {
	Recognizers []Definition `yaml:"recognizers"`
}

// LatestTimestamp returns the file's mtime as Unix seconds, or zero when the
// file does not exist.
func (s *FileStore) LatestTimestamp(_ context.Context) (int64, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("file store: stat %s: %w", s.path, err)
	}
	return info.ModTime().Unix(), nil
}

// AllRecognizers parses every definition in the file.
func (s *FileStore) AllRecognizers(_ context.Context) ([]Definition, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: read %s: %w", s.path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("file store: parse %s: %w", s.path, err)
	}

	for _, def := range doc.Recognizers {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("file store: %s: %w", s.path, err)
		}
	}
	return doc.Recognizers, nil
}
