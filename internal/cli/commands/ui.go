package commands

import (
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/hybridql/internal/query"
	"github.com/leapstack-labs/hybridql/internal/ui"
	"github.com/spf13/cobra"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the hybridql browser UI",
		Long: `Start a local web server providing the browser interface.

The UI provides:
- Database connector with schema overview
- Document uploader with drag and drop
- Natural language query box
- SQL table and document answer results`,
		Example: `  # Start UI on default port
  hybridql ui

  # Start on custom port against a remote backend
  hybridql ui --port 3000 --backend-url http://engine:8000

  # Start without auto-opening browser
  hybridql ui --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Rebuild static assets and reload the page on change")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	uiCfg := cc.Cfg.UI

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	server, err := ui.NewServer(ui.Config{
		Backend: cc.Client,
		QueryOptions: query.Options{
			Limit:  cc.Cfg.Query.Limit,
			Offset: cc.Cfg.Query.Offset,
		},
		Port:           port,
		Watch:          watch,
		SessionSecret:  uiCfg.SessionSecret,
		SessionTTL:     uiCfg.SessionTTL,
		MaxUploadBytes: uiCfg.MaxUploadBytes(),
		Logger:         cc.Logger,
		OnReady: func(url string) {
			cc.Renderer.Success("UI server listening on " + url)
			cc.Renderer.Muted("Backend: " + cc.Client.BaseURL())
			cc.Renderer.Muted("Press Ctrl+C to stop")
			if autoOpen {
				go openBrowser(url, cc.Logger)
			}
		},
	})
	if err != nil {
		return err
	}

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string, logger *slog.Logger) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	if err := cmd.Start(); err != nil {
		logger.Debug("failed to open browser", slog.String("url", url), slog.Any("error", err))
	}
}
