package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/hybridql/internal/cli/config"
)

// ConfigField describes one configuration key.
type ConfigField struct {
	Key         string
	Type        string
	Description string
	Section     string
	Default     func(c *config.Config) string
}

// configFields lists every key accepted by hybridql.yaml.
func configFields() []ConfigField {
	return []ConfigField{
		{Key: "backend.url", Type: "string", Section: "backend", Description: "Base URL of the engine backend",
			Default: func(c *config.Config) string { return c.Backend.URL }},
		{Key: "backend.timeout", Type: "duration", Section: "backend", Description: "Per-request timeout; 0 disables it",
			Default: func(c *config.Config) string { return c.Backend.Timeout.String() }},

		{Key: "ui.port", Type: "int", Section: "ui", Description: "Port the UI server listens on",
			Default: func(c *config.Config) string { return strconv.Itoa(c.UI.Port) }},
		{Key: "ui.auto_open", Type: "bool", Section: "ui", Description: "Open the browser when the server is ready",
			Default: func(c *config.Config) string { return strconv.FormatBool(c.UI.AutoOpen) }},
		{Key: "ui.watch", Type: "bool", Section: "ui", Description: "Rebuild assets and live-reload on change (development builds)",
			Default: func(c *config.Config) string { return strconv.FormatBool(c.UI.Watch) }},
		{Key: "ui.session_secret", Type: "string", Section: "ui", Description: "Cookie signing key; a random key is generated when empty",
			Default: func(c *config.Config) string { return c.UI.SessionSecret }},
		{Key: "ui.session_ttl", Type: "duration", Section: "ui", Description: "Lifetime of a browser session",
			Default: func(c *config.Config) string { return c.UI.SessionTTL.String() }},
		{Key: "ui.max_upload_mb", Type: "int", Section: "ui", Description: "Largest accepted upload request in MiB",
			Default: func(c *config.Config) string { return strconv.Itoa(c.UI.MaxUploadMB) }},

		{Key: "query.limit", Type: "int", Section: "query", Description: "Row limit forwarded with each question; 0 lets the backend decide",
			Default: func(c *config.Config) string { return strconv.Itoa(c.Query.Limit) }},
		{Key: "query.offset", Type: "int", Section: "query", Description: "Row offset forwarded with each question",
			Default: func(c *config.Config) string { return strconv.Itoa(c.Query.Offset) }},
		{Key: "query.history_file", Type: "string", Section: "query", Description: "REPL history file, relative to the home directory",
			Default: func(c *config.Config) string { return c.Query.HistoryFile }},

		{Key: "output", Type: "string", Section: "general", Description: "Output format: auto, text, markdown, json",
			Default: func(c *config.Config) string { return c.OutputFormat }},
		{Key: "verbose", Type: "bool", Section: "general", Description: "Shortcut for log_level debug",
			Default: func(c *config.Config) string { return strconv.FormatBool(c.Verbose) }},
		{Key: "log_level", Type: "string", Section: "general", Description: "debug, info, warn or error",
			Default: func(c *config.Config) string { return c.LogLevel }},
		{Key: "log_format", Type: "string", Section: "general", Description: "text or json",
			Default: func(c *config.Config) string { return c.LogFormat }},
	}
}

// envName maps a dotted key to its environment variable.
func envName(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// generateConfigDocs writes configuration.md to outDir.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, renderConfigDoc(config.Default()), 0600); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")
	return nil
}

func renderConfigDoc(defaults *config.Config) []byte {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "hybridql configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("hybridql reads " + InlineCode("hybridql.yaml") + " (or " + InlineCode("hybridql.yml") +
		") from the working directory or the nearest parent. Pass " + InlineCode("--config") +
		" to use another file. " + InlineCode("${VAR}") + " references in the backend URL and session secret are expanded.")

	sections := []struct{ name, title string }{
		{"backend", "Backend"},
		{"ui", "UI Server"},
		{"query", "Query"},
		{"general", "General"},
	}
	headers := []string{"Key", "Type", "Default", "Environment", "Description"}
	fields := configFields()
	for _, sec := range sections {
		var rows [][]string
		for _, f := range fields {
			if f.Section != sec.name {
				continue
			}
			def := f.Default(defaults)
			if def == "" {
				def = "-"
			} else {
				def = InlineCode(def)
			}
			rows = append(rows, []string{InlineCode(f.Key), f.Type, def, InlineCode(envName(f.Key)), f.Description})
		}
		w.Header(2, sec.title)
		w.Table(headers, rows)
	}

	w.Header(2, "Example")
	w.CodeBlock("yaml", `backend:
  url: https://engine.internal:8000
  timeout: 60s
ui:
  port: 8765
  session_secret: ${HYBRIDQL_SECRET}
query:
  limit: 100`)

	return w.Bytes()
}
