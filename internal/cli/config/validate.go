package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	outputModes = []string{"auto", "text", "markdown", "md", "json"}
	logLevels   = []string{"debug", "info", "warn", "error"}
	logFormats  = []string{"text", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateBackendURL(c.Backend.URL); err != nil {
		return err
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %s", c.Backend.Timeout)
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port must be between 0 and 65535, got %d", c.UI.Port)
	}
	if c.UI.SessionTTL < 0 {
		return fmt.Errorf("ui.session_ttl must not be negative, got %s", c.UI.SessionTTL)
	}
	if c.UI.MaxUploadMB <= 0 {
		return fmt.Errorf("ui.max_upload_mb must be positive, got %d", c.UI.MaxUploadMB)
	}
	if c.Query.Limit < 0 || c.Query.Offset < 0 {
		return fmt.Errorf("query.limit and query.offset must not be negative")
	}
	if err := oneOf("output", c.OutputFormat, outputModes); err != nil {
		return err
	}
	if err := oneOf("log_level", c.LogLevel, logLevels); err != nil {
		return err
	}
	return oneOf("log_format", c.LogFormat, logFormats)
}

func validateBackendURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("backend.url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("backend.url is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.url must be an absolute http(s) URL, got %q\nHint: use --backend-url http://localhost:8000", raw)
	}
	return nil
}

func oneOf(key, value string, allowed []string) error {
	if slices.Contains(allowed, strings.ToLower(value)) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, "|"), value)
}
