// Package home serves the application page.
package home

import (
	"log/slog"
	"net/http"

	"github.com/leapstack-labs/hybridql/internal/ui/features/common"
	"github.com/leapstack-labs/hybridql/internal/ui/features/common/components"
	"github.com/leapstack-labs/hybridql/internal/ui/session"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	logger *slog.Logger
	isDev  bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{logger: logger, isDev: isDev}
}

// HomePage renders every panel from the caller's session state.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	panels, _ := session.FromContext(r.Context())
	data := common.BuildPageData(PageTitle, h.isDev, panels)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Page(data).Render(r.Context(), w); err != nil {
		h.logger.Error("render home page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
