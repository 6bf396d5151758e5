package home

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the home feature routes.
func SetupRoutes(router chi.Router, logger *slog.Logger, isDev bool) error {
	handlers := NewHandlers(logger, isDev)

	router.Get("/", handlers.HomePage)

	return nil
}
