// Package nlquery drives the query and results panels over SSE.
package nlquery

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/hybridql/internal/query"
	"github.com/leapstack-labs/hybridql/internal/results"
	"github.com/leapstack-labs/hybridql/internal/ui/features/common/components"
	"github.com/leapstack-labs/hybridql/internal/ui/session"
)

// Handlers provides HTTP handlers for the query panel.
type Handlers struct {
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{logger: logger}
}

// QuerySSE submits a question. The query and results panels are patched
// empty before the backend is called and again with the answer.
func (h *Handlers) QuerySSE(w http.ResponseWriter, r *http.Request) {
	panels, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals QuerySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	st, err := panels.Query.Submit(r.Context(), signals.Question, func(s query.State) {
		if perr := h.patch(sse, s); perr != nil {
			h.logger.Debug("patch query panels", "error", perr)
		}
	})
	if err != nil && !errors.Is(err, query.ErrEmptyQuestion) && !errors.Is(err, query.ErrBusy) {
		_ = sse.ConsoleError(err)
		return
	}

	if err := h.patch(sse, st); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) patch(sse *datastar.ServerSentEventGenerator, st query.State) error {
	if err := sse.PatchElementTempl(components.QueryPanel(st)); err != nil {
		return err
	}
	return sse.PatchElementTempl(components.ResultsPanel(results.Build(st.Result)))
}
