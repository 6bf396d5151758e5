// Package documents drives the uploader panel over SSE.
package documents

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/hybridql/internal/backend"
	"github.com/leapstack-labs/hybridql/internal/ui/features/common/components"
	"github.com/leapstack-labs/hybridql/internal/ui/session"
	"github.com/leapstack-labs/hybridql/internal/uploader"
)

// Handlers provides HTTP handlers for the uploader panel.
type Handlers struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewHandlers creates a new Handlers instance. A non-positive limit uses
// DefaultMaxUploadBytes.
func NewHandlers(logger *slog.Logger, maxUploadBytes int64) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handlers{logger: logger, maxBytes: maxUploadBytes}
}

// UploadSSE takes the files of a multipart form, replaces the session's
// selection with them and sends them to the backend as one batch.
func (h *Handlers) UploadSSE(w http.ResponseWriter, r *http.Request) {
	panels, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}

	// Parse the form BEFORE creating SSE
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	var headers []*multipart.FileHeader
	parseErr := r.ParseMultipartForm(multipartMemory)
	if parseErr == nil && r.MultipartForm != nil {
		headers = r.MultipartForm.File[backend.UploadField]
	}

	sse := datastar.NewSSE(w, r)

	if parseErr != nil && !errors.Is(parseErr, http.ErrNotMultipart) {
		h.logger.Warn("invalid upload form", "error", parseErr)
		st := panels.Uploader.State()
		st.Status = "Upload Error: " + parseErr.Error()
		_ = sse.PatchElementTempl(components.UploaderPanel(st))
		return
	}

	st, err := panels.Uploader.SetFiles(uploader.FromMultipart(headers))
	if errors.Is(err, uploader.ErrBusy) {
		_ = sse.PatchElementTempl(components.UploaderPanel(st))
		return
	}

	st, err = panels.Uploader.Upload(r.Context(), func(s uploader.State) {
		if perr := sse.PatchElementTempl(components.UploaderPanel(s)); perr != nil {
			h.logger.Debug("patch uploader panel", "error", perr)
		}
	})
	if err != nil && !errors.Is(err, uploader.ErrNoFiles) && !errors.Is(err, uploader.ErrBusy) {
		_ = sse.ConsoleError(err)
		return
	}

	if err := sse.PatchElementTempl(components.UploaderPanel(st)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
