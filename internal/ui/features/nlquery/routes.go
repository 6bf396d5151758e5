package nlquery

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the query panel routes.
func SetupRoutes(router chi.Router, logger *slog.Logger) error {
	handlers := NewHandlers(logger)

	router.Post("/ui/query", handlers.QuerySSE)

	return nil
}
