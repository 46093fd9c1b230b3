// Copyright 2025 The LogLens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config assembles the immutable runtime configuration from flags,
// environment variables, and the config file, in that order of precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/imdario/mergo"
	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/loglens/loglens/helper"
)

// TokenPrefix is the family prefix of platform API tokens ("dt0s16.XXX...").
const TokenPrefix = "dt0"

// ConfigError reports configuration that cannot support live queries. In
// production mode it is fatal at startup; a malformed setup never degrades
// into synthetic data silently.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Config carries everything one run of the client needs. It is assembled
// once at startup and treated as immutable afterwards.
type Config struct {
	// BaseURL is the environment URL, e.g. https://abc12345.apps.dynatrace.com
	// without a trailing slash.
	BaseURL string
	// Token is the API token presented as a bearer credential.
	Token string

	// RequestTimeout bounds one full round trip to the backend.
	RequestTimeout time.Duration
	// BackendTimeoutMs is handed to the backend as its own execution limit,
	// kept below RequestTimeout so the server side gives up first.
	BackendTimeoutMs int
	// MaxRecords caps the entries requested per query.
	MaxRecords int

	// HistoryLimit caps the stored query history; the oldest records are
	// evicted beyond it.
	HistoryLimit int
	// FallbackCount is the number of randomized synthetic entries generated
	// when the backend is out of reach.
	FallbackCount int

	// DataDir holds history, saved queries, preferences, and the session log.
	DataDir string

	// Development forces synthetic data and skips credential validation.
	Development bool
	Verbose     bool
}

func defaultConfig() Config {
	return Config{
		RequestTimeout:   35 * time.Second,
		BackendTimeoutMs: 30000,
		MaxRecords:       1000,
		HistoryLimit:     50,
		FallbackCount:    100,
	}
}

// Load assembles the configuration from viper and fills the gaps from
// defaults. Credentials resolve from the top-level base_url/token keys
// (which AutomaticEnv maps to DYNATRACE_BASE_URL/DYNATRACE_TOKEN) and fall
// back to the url/token keys of the active remote section of the config
// file. Loading never fails on missing credentials so that development mode
// runs without any setup; Validate covers that separately.
func Load() (*Config, error) {
	loaded := Config{
		BaseURL:          strings.TrimRight(firstOf(viper.GetString("base_url"), helper.CurrentConfig("url")), "/"),
		Token:            firstOf(viper.GetString("token"), helper.CurrentConfig("token")),
		RequestTimeout:   viper.GetDuration("request_timeout"),
		BackendTimeoutMs: viper.GetInt("backend_timeout_ms"),
		MaxRecords:       viper.GetInt("max_records"),
		HistoryLimit:     viper.GetInt("history_limit"),
		FallbackCount:    viper.GetInt("fallback_count"),
		DataDir:          viper.GetString("data_dir"),
		Development:      viper.GetBool("development"),
		Verbose:          viper.GetBool("verbose"),
	}

	if loaded.DataDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("unable to locate home directory: %w", err)
		}
		loaded.DataDir = filepath.Join(home, ".loglens")
	}

	return extendDefaultConfig(&loaded), nil
}

// extendDefaultConfig extends the given config with the default values.
//
// The given config is left untouched.
func extendDefaultConfig(cfg *Config) *Config {
	defaults := defaultConfig()
	extended := Config{}
	copier.Copy(&extended, cfg)
	mergo.Merge(&extended, defaults)
	return &extended
}

// Validate checks that live queries are possible. Development mode skips
// validation entirely.
func (c *Config) Validate() error {
	if c.Development {
		return nil
	}
	if c.BaseURL == "" {
		return &ConfigError{Field: "base_url", Reason: "is not set"}
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return &ConfigError{Field: "base_url", Reason: "must be an http(s) URL"}
	}
	if c.Token == "" {
		return &ConfigError{Field: "token", Reason: "is not set"}
	}
	if !strings.HasPrefix(c.Token, TokenPrefix) {
		return &ConfigError{Field: "token", Reason: fmt.Sprintf("must start with %q", TokenPrefix)}
	}
	return nil
}

// HasCredentials reports whether both credentials are present, without
// judging their shape.
func (c *Config) HasCredentials() bool {
	return c.BaseURL != "" && c.Token != ""
}

// LogFile is where the session log goes while the interactive view owns the
// terminal.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "loglens.log")
}

// SetupGuidance explains how to configure credentials. Shown when
// production mode starts without a usable setup.
func SetupGuidance() string {
	return strings.Join([]string{
		"To connect to your environment:",
		"  1. Find your environment URL in the web UI (e.g. https://abc12345.apps.dynatrace.com)",
		"  2. Create an API token with the storage:logs:read and storage:metrics:read scopes",
		"  3. Export the credentials:",
		"       export DYNATRACE_BASE_URL='https://your-env.apps.dynatrace.com'",
		"       export DYNATRACE_TOKEN='dt0s16.YOUR_TOKEN_HERE'",
		"     or run `loglens configure`",
		"Run with --development to browse synthetic data without credentials.",
	}, "\n")
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
