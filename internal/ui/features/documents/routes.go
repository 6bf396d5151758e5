package documents

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the uploader panel routes.
func SetupRoutes(router chi.Router, logger *slog.Logger, maxUploadBytes int64) error {
	handlers := NewHandlers(logger, maxUploadBytes)

	router.Post("/ui/upload", handlers.UploadSSE)

	return nil
}
