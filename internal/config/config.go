// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads service configuration from file and environment.
// Settings resolve in order: defaults, then the config file, then
// PII_SENTRY_* environment variables (nested keys joined with underscores,
// e.g. PII_SENTRY_NLP_SIDECAR_URL).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	NLP      NLPConfig      `mapstructure:"nlp"`
	Store    StoreConfig    `mapstructure:"store"`
	Remote   []RemoteConfig `mapstructure:"remote"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// AnalysisConfig configures the pipeline defaults.
type AnalysisConfig struct {
	DefaultLanguage       string   `mapstructure:"default_language"`
	DefaultScoreThreshold float64  `mapstructure:"default_score_threshold"`
	Workers               int      `mapstructure:"workers"`
	EnabledRecognizers    []string `mapstructure:"enabled_recognizers"`
}

// NLPConfig selects and configures the NLP provider.
type NLPConfig struct {
	// Mode is "lexical" (in-process tokenizer, no named entities) or
	// "sidecar" (external model service).
	Mode       string        `mapstructure:"mode"`
	SidecarURL string        `mapstructure:"sidecar_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StoreConfig selects the custom recognizer store backend.
type StoreConfig struct {
	// Backend is "none", "file" or "redis".
	Backend   string `mapstructure:"backend"`
	Path      string `mapstructure:"path"`
	RedisAddr string `mapstructure:"redis_addr"`
}

// RemoteConfig declares one remote detection service.
type RemoteConfig struct {
	Name     string        `mapstructure:"name"`
	URL      string        `mapstructure:"url"`
	Entities []string      `mapstructure:"entities"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("analysis.default_language", "en")
	v.SetDefault("analysis.default_score_threshold", 0.0)
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("nlp.mode", "lexical")
	v.SetDefault("nlp.timeout", 10*time.Second)
	v.SetDefault("store.backend", "none")
	v.SetDefault("log.level", "info")
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PII_SENTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.NLP.Mode {
	case "lexical":
	case "sidecar":
		if c.NLP.SidecarURL == "" {
			return fmt.Errorf("nlp.sidecar_url is required in sidecar mode")
		}
	default:
		return fmt.Errorf("nlp.mode must be \"lexical\" or \"sidecar\", got %q", c.NLP.Mode)
	}

	switch c.Store.Backend {
	case "none":
	case "file":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the file backend")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("store.backend must be \"none\", \"file\" or \"redis\", got %q", c.Store.Backend)
	}

	if c.Analysis.DefaultScoreThreshold < 0 || c.Analysis.DefaultScoreThreshold > 1 {
		return fmt.Errorf("analysis.default_score_threshold %v outside [0,1]", c.Analysis.DefaultScoreThreshold)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative")
	}

	for _, r := range c.Remote {
		if r.Name == "" || r.URL == "" {
			return fmt.Errorf("remote recognizers require name and url")
		}
	}
	return nil
}
