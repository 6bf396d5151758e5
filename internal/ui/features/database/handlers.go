// Package database drives the connector panel over SSE.
package database

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/hybridql/internal/connector"
	"github.com/leapstack-labs/hybridql/internal/ui/features/common/components"
	"github.com/leapstack-labs/hybridql/internal/ui/session"
)

// Handlers provides HTTP handlers for the connector panel.
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

// ConnectSSE runs a connection attempt, patching the panel once when the
// attempt starts and again with the outcome.
func (h *Handlers) ConnectSSE(w http.ResponseWriter, r *http.Request) {
	panels, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals ConnectSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	sse := datastar.NewSSE(w, r)

	st, err := panels.Connector.Connect(r.Context(), signals.Connection, func(s connector.State) {
		if perr := sse.PatchElementTempl(components.ConnectorPanel(s)); perr != nil {
			h.logger.Debug("patch connector panel", "error", perr)
		}
	})
	if err != nil && !errors.Is(err, connector.ErrEmptyInput) && !errors.Is(err, connector.ErrBusy) {
		_ = sse.ConsoleError(err)
		return
	}

	if err := sse.PatchElementTempl(components.ConnectorPanel(st)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
