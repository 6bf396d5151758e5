package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to an empty temp dir so no stray hybridql.yaml is found.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "hybridql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func rootFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("hybridql", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("backend-url", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("output", "o", "", "")
	fs.String("log-level", "", "")
	fs.String("log-format", "", "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := LoadConfig("", rootFlags())
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
	assert.Zero(t, cfg.Backend.Timeout)
	assert.Equal(t, DefaultPort, cfg.UI.Port)
	assert.True(t, cfg.UI.AutoOpen)
	assert.Equal(t, DefaultSessionTTL, cfg.UI.SessionTTL)
	assert.Equal(t, int64(64<<20), cfg.UI.MaxUploadBytes())
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.File)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := chdir(t)
	writeConfig(t, dir, `
backend:
  url: http://file:8000
  timeout: 30s
ui:
  port: 9000
  session_ttl: 2h
log_level: warn
query:
  limit: 10
`)
	t.Setenv("HYBRIDQL_UI__PORT", "9100")
	t.Setenv("HYBRIDQL_LOG_LEVEL", "error")

	flags := rootFlags()
	require.NoError(t, flags.Parse([]string{"--backend-url", "http://flag:8000"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "http://flag:8000", cfg.Backend.URL, "flag beats file")
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 9100, cfg.UI.Port, "env beats file")
	assert.Equal(t, 2*time.Hour, cfg.UI.SessionTTL)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 10, cfg.Query.Limit)
	assert.Equal(t, filepath.Join(dir, "hybridql.yaml"), cfg.File)
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "ui:\n  port: 7000\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.UI.Port)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	chdir(t)

	_, err := LoadConfig("missing.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestLoadConfig_ExpandsEnvReferences(t *testing.T) {
	dir := chdir(t)
	writeConfig(t, dir, "ui:\n  session_secret: ${HQL_TEST_SECRET}\n")
	t.Setenv("HQL_TEST_SECRET", "s3cret")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.UI.SessionSecret)
	assert.Equal(t, redactedPlaceholder, cfg.Redacted().UI.SessionSecret)
	assert.Equal(t, "s3cret", cfg.UI.SessionSecret, "Redacted copies")
}

func TestLoadConfig_VerboseRaisesLogLevel(t *testing.T) {
	chdir(t)
	flags := rootFlags()
	require.NoError(t, flags.Parse([]string{"-v"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	chdir(t)
	flags := rootFlags()
	require.NoError(t, flags.Parse([]string{"--backend-url", "localhost:8000"}))

	_, err := LoadConfig("", flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.url")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty url", func(c *Config) { c.Backend.URL = "" }, "backend.url is required"},
		{"ftp url", func(c *Config) { c.Backend.URL = "ftp://x" }, "absolute http(s)"},
		{"negative timeout", func(c *Config) { c.Backend.Timeout = -time.Second }, "backend.timeout"},
		{"port", func(c *Config) { c.UI.Port = 70000 }, "ui.port"},
		{"upload size", func(c *Config) { c.UI.MaxUploadMB = 0 }, "ui.max_upload_mb"},
		{"limit", func(c *Config) { c.Query.Limit = -1 }, "query.limit"},
		{"output", func(c *Config) { c.OutputFormat = "yaml" }, "output must be one of"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")), "missing file is fine")

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("HQL_DOTENV_A=from-file\nHQL_DOTENV_B=from-file\n"), 0o600))
	t.Setenv("HQL_DOTENV_B", "from-env")
	t.Setenv("HQL_DOTENV_A", "")
	require.NoError(t, os.Unsetenv("HQL_DOTENV_A"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("HQL_DOTENV_A"))
	assert.Equal(t, "from-env", os.Getenv("HQL_DOTENV_B"))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, DefaultBackendURL, FromContext(ctx).Backend.URL)
	assert.NotNil(t, GetLogger(ctx))

	cfg := Default()
	cfg.UI.Port = 1
	assert.Same(t, cfg, FromContext(WithConfig(ctx, cfg)))
}
