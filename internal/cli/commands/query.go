package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/hybridql/internal/cli/output"
	"github.com/leapstack-labs/hybridql/internal/query"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input  string
	Limit  int
	Offset int
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Ask a question in natural language",
		Long: `Ask the backend a question in plain language.

The backend decides whether to answer from the connected database, from
uploaded documents or from both. SQL rows are shown as a table and the
document answer as prose.

When invoked without a question on an interactive terminal, enters REPL mode.`,
		Example: `  # Ask directly
  hybridql query "How many orders were placed last month?"

  # Read the question from a file or a pipe
  hybridql query --input question.txt
  echo "Summarize the refund policy" | hybridql query

  # Raw JSON payload, second page of rows
  hybridql query "List customers" -o json --limit 20 --offset 20

  # Interactive mode
  hybridql query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the question from file")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum SQL rows to return (default: backend default)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "SQL rows to skip")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	qopts := query.Options{Limit: cc.Cfg.Query.Limit, Offset: cc.Cfg.Query.Offset}
	if cmd.Flags().Changed("limit") {
		qopts.Limit = opts.Limit
	}
	if cmd.Flags().Changed("offset") {
		qopts.Offset = opts.Offset
	}
	if qopts.Limit < 0 || qopts.Offset < 0 {
		return fmt.Errorf("--limit and --offset must not be negative")
	}
	panel := query.NewPanel(cc.Client, qopts, cc.Logger)

	// Determine question source
	var question string
	switch {
	case len(args) > 0:
		question = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		question = string(content)
	case !stdinIsTerminal(cmd):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		question = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, cc, panel)
	}

	st, err := panel.Submit(cmd.Context(), strings.TrimSpace(question), nil)
	if err != nil {
		return err
	}
	if err := renderQueryState(cc.Renderer, st); err != nil {
		return err
	}
	if st.Err != nil {
		return ErrReported
	}
	return nil
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && output.IsTerminalFile(f)
}
