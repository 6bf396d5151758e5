package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/hybridql/internal/backend"
	"github.com/leapstack-labs/hybridql/internal/cli/output"
	"github.com/leapstack-labs/hybridql/internal/uploader"
	"github.com/spf13/cobra"
)

// UploadJSON is the JSON output structure for upload.
type UploadJSON struct {
	Status string                `json:"status"`
	Files  []string              `json:"files"`
	Result *backend.UploadResult `json:"result"`
}

// NewUploadCommand creates the upload command.
func NewUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>...",
		Short: "Upload documents for ingestion",
		Long: `Send documents to the backend in one batch for chunking and indexing.

Directories are walked recursively in lexical order. Hidden files and
empty files are skipped.`,
		Example: `  hybridql upload report.pdf notes.txt
  hybridql upload ./docs`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runUpload(cmd, cc, args)
		},
	}
}

func runUpload(cmd *cobra.Command, cc *CommandContext, paths []string) error {
	r := cc.Renderer

	files, err := uploader.FromPaths(paths)
	if err != nil {
		return err
	}

	panel := uploader.NewPanel(cc.Client, cc.Logger)
	selected, err := panel.SetFiles(files)
	if err != nil {
		return err
	}
	if skipped := len(files) - selected.Ready(); skipped > 0 {
		r.Warning(fmt.Sprintf("Skipping %d empty file(s)", skipped))
	}

	names := make([]string, selected.Ready())
	for i, f := range selected.Files {
		names[i] = f.Name
	}

	st, err := panel.Upload(cmd.Context(), func(s uploader.State) {
		r.Muted(s.Status)
	})
	if errors.Is(err, uploader.ErrNoFiles) {
		r.Error(st.Status)
		return ErrReported
	}
	if err != nil {
		return err
	}
	if st.Failed() {
		r.Error(st.Status)
		return ErrReported
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(UploadJSON{Status: st.Status, Files: names, Result: st.Result})
	}
	r.Success(st.Status)
	if len(st.Result.Filenames) > 0 {
		r.Muted(fmt.Sprintf("Indexed: %v", st.Result.Filenames))
	}
	return nil
}
