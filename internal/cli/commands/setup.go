// Package commands implements the hybridql subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/hybridql/internal/backend"
	"github.com/leapstack-labs/hybridql/internal/cli/config"
	"github.com/leapstack-labs/hybridql/internal/cli/output"
	"github.com/spf13/cobra"
)

// ErrReported is returned by commands that already printed their failure.
// The caller only needs to set a non-zero exit code.
var ErrReported = errors.New("command failed")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Client   *backend.Client
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a backend client and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc := NewCommandContextWithoutBackend(cmd)

	client, err := backend.New(backend.Config{
		BaseURL: cc.Cfg.Backend.URL,
		Timeout: cc.Cfg.Backend.Timeout,
		Logger:  cc.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	cc.Client = client
	return cc, nil
}

// NewCommandContextWithoutBackend creates a CommandContext without a client.
// Useful for commands that never reach the backend.
func NewCommandContextWithoutBackend(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}
