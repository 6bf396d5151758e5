package commands

import (
	"fmt"

	"github.com/leapstack-labs/hybridql/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
HYBRIDQL_* environment variables and flags. The session secret is redacted.`,
		Example: `  hybridql config
  HYBRIDQL_UI__PORT=9000 hybridql config -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutBackend(cmd)
			r := cc.Renderer
			cfg := cc.Cfg.Redacted()

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if cc.Cfg.File != "" {
				r.Muted("# from " + cc.Cfg.File)
			}
			r.Printf("%s", data)
			return nil
		},
	}
}
