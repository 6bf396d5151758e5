// Package config provides configuration management for the hybridql CLI.
//
// Values are layered with koanf: built-in defaults, then a hybridql.yaml
// file, then HYBRIDQL_* environment variables, then explicitly set flags.
package config

import "time"

// Default configuration values.
const (
	DefaultBackendURL   = "http://localhost:8000"
	DefaultPort         = 8765
	DefaultSessionTTL   = 24 * time.Hour
	DefaultMaxUploadMB  = 64
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
	DefaultHistoryFile  = ".hybridql_history"
	redactedPlaceholder = "********"
)

// BackendConfig locates the engine backend.
type BackendConfig struct {
	URL     string        `koanf:"url" yaml:"url" json:"url"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port" yaml:"port" json:"port"`
	AutoOpen      bool          `koanf:"auto_open" yaml:"auto_open" json:"auto_open"`
	Watch         bool          `koanf:"watch" yaml:"watch" json:"watch"`
	SessionSecret string        `koanf:"session_secret" yaml:"session_secret" json:"session_secret"`
	SessionTTL    time.Duration `koanf:"session_ttl" yaml:"session_ttl" json:"session_ttl"`
	MaxUploadMB   int           `koanf:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
}

// MaxUploadBytes converts MaxUploadMB to bytes.
func (u UIConfig) MaxUploadBytes() int64 {
	return int64(u.MaxUploadMB) << 20
}

// QueryConfig holds paging forwarded with every question. Zero lets the
// backend apply its own defaults.
type QueryConfig struct {
	Limit       int    `koanf:"limit" yaml:"limit" json:"limit"`
	Offset      int    `koanf:"offset" yaml:"offset" json:"offset"`
	HistoryFile string `koanf:"history_file" yaml:"history_file" json:"history_file"`
}

// Config holds all CLI configuration options.
type Config struct {
	Backend      BackendConfig `koanf:"backend" yaml:"backend" json:"backend"`
	UI           UIConfig      `koanf:"ui" yaml:"ui" json:"ui"`
	Query        QueryConfig   `koanf:"query" yaml:"query" json:"query"`
	Verbose      bool          `koanf:"verbose" yaml:"verbose" json:"verbose"`
	OutputFormat string        `koanf:"output" yaml:"output" json:"output"`
	LogLevel     string        `koanf:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat    string        `koanf:"log_format" yaml:"log_format" json:"log_format"`

	// File is the config file that was read, if any.
	File string `koanf:"-" yaml:"-" json:"-"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{URL: DefaultBackendURL},
		UI: UIConfig{
			Port:        DefaultPort,
			AutoOpen:    true,
			SessionTTL:  DefaultSessionTTL,
			MaxUploadMB: DefaultMaxUploadMB,
		},
		Query:        QueryConfig{HistoryFile: DefaultHistoryFile},
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.UI.SessionSecret != "" {
		cp.UI.SessionSecret = redactedPlaceholder
	}
	return &cp
}

func defaultsMap() map[string]any {
	d := Default()
	return map[string]any{
		"backend.url":        d.Backend.URL,
		"backend.timeout":    "0s",
		"ui.port":            d.UI.Port,
		"ui.auto_open":       d.UI.AutoOpen,
		"ui.watch":           d.UI.Watch,
		"ui.session_secret":  "",
		"ui.session_ttl":     d.UI.SessionTTL.String(),
		"ui.max_upload_mb":   d.UI.MaxUploadMB,
		"query.limit":        0,
		"query.offset":       0,
		"query.history_file": d.Query.HistoryFile,
		"verbose":            false,
		"output":             d.OutputFormat,
		"log_level":          d.LogLevel,
		"log_format":         d.LogFormat,
	}
}
