// Package uploader implements the document uploader panel. Selected files
// are filtered, sent to the backend as one multipart batch and the
// ingestion report is turned into a status line.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/hybridql/internal/backend"
)

// Status lines.
const (
	StatusNoFiles = "Please select files first."
)

// ErrNoFiles is returned when an upload is attempted with nothing selected.
var ErrNoFiles = backend.ErrNoFiles

// ErrBusy is returned while an upload is in flight.
var ErrBusy = errors.New("upload already in progress")

// DocumentClient is the backend call the panel depends on.
type DocumentClient interface {
	UploadDocuments(ctx context.Context, files []backend.File) (*backend.UploadResult, error)
}

// State is a snapshot of the panel.
type State struct {
	Files   []backend.File
	Status  string
	Result  *backend.UploadResult
	Err     error
	Loading bool
}

// Ready is the number of files queued for the next upload.
func (s State) Ready() int {
	return len(s.Files)
}

// Failed reports whether the last upload ended in an error.
func (s State) Failed() bool {
	return s.Err != nil
}

// Select drops empty files and keeps the order of the rest.
func Select(files []backend.File) []backend.File {
	out := make([]backend.File, 0, len(files))
	for _, f := range files {
		if f.Size > 0 {
			out = append(out, f)
		}
	}
	return out
}

// Panel holds uploader state. It allows one upload at a time.
type Panel struct {
	client DocumentClient
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// NewPanel creates an uploader panel backed by client.
func NewPanel(client DocumentClient, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Panel{client: client, logger: logger}
}

// State returns the current snapshot.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetFiles replaces the selection with the non-empty files in files.
// The selection cannot change while an upload is running.
func (p *Panel) SetFiles(files []backend.File) (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Loading {
		return p.state, ErrBusy
	}
	p.state.Files = Select(files)
	return p.state, nil
}

// Upload sends the current selection. progress, when non-nil, receives
// the loading state before the request starts. Backend failures end up in
// the returned state; the error is only ErrNoFiles or ErrBusy.
func (p *Panel) Upload(ctx context.Context, progress func(State)) (State, error) {
	p.mu.Lock()
	if p.state.Loading {
		st := p.state
		p.mu.Unlock()
		return st, ErrBusy
	}
	if len(p.state.Files) == 0 {
		p.state = State{Status: StatusNoFiles}
		st := p.state
		p.mu.Unlock()
		return st, ErrNoFiles
	}
	files := p.state.Files
	p.state = State{
		Files:   files,
		Status:  fmt.Sprintf("Uploading %d file(s)...", len(files)),
		Loading: true,
	}
	loading := p.state
	p.mu.Unlock()

	if progress != nil {
		progress(loading)
	}

	p.logger.Info("uploading documents", "files", len(files))
	res, err := p.client.UploadDocuments(ctx, files)

	final := loading
	final.Loading = false
	if err != nil {
		final.Err = err
		final.Status = "Upload Error: " + backend.Message(err)
		p.logger.Warn("upload failed", "files", len(files), "error", err)
	} else {
		if res == nil {
			res = &backend.UploadResult{}
		}
		final.Files = nil
		final.Result = res
		final.Status = fmt.Sprintf("Ingestion successful. Processed %d chunks.", res.ProcessedChunks)
		p.logger.Info("documents ingested", "files", len(files), "chunks", res.ProcessedChunks)
	}

	p.mu.Lock()
	p.state = final
	p.mu.Unlock()
	return final, nil
}
