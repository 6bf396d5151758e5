package database

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the connector panel routes.
func SetupRoutes(router chi.Router, logger *slog.Logger) error {
	handlers := NewHandlers(logger)

	router.Post("/ui/connect", handlers.ConnectSSE)

	return nil
}
