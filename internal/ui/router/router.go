// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	databaseFeature "github.com/leapstack-labs/hybridql/internal/ui/features/database"
	documentsFeature "github.com/leapstack-labs/hybridql/internal/ui/features/documents"
	homeFeature "github.com/leapstack-labs/hybridql/internal/ui/features/home"
	nlqueryFeature "github.com/leapstack-labs/hybridql/internal/ui/features/nlquery"
	"github.com/leapstack-labs/hybridql/internal/ui/notifier"
	"github.com/leapstack-labs/hybridql/internal/ui/resources"
	"github.com/leapstack-labs/hybridql/internal/ui/session"
)

// Deps are the shared dependencies of every route.
type Deps struct {
	Cookies        sessions.Store
	Sessions       *session.Store
	Notifier       *notifier.Notifier
	Bundle         *resources.Bundle
	Logger         *slog.Logger
	MaxUploadBytes int64
	IsDev          bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router, deps.Notifier)
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	// Static assets
	router.Handle(resources.StaticPath(resources.BundleName), deps.Bundle)
	router.Handle("/static/*", resources.Handler())

	// Feature routes share the caller's session panels
	var setupErr error
	router.Group(func(r chi.Router) {
		r.Use(session.Middleware(deps.Cookies, deps.Sessions, logger))

		if err := homeFeature.SetupRoutes(r, logger, deps.IsDev); err != nil {
			setupErr = err
			return
		}
		if err := databaseFeature.SetupRoutes(r, logger); err != nil {
			setupErr = err
			return
		}
		if err := documentsFeature.SetupRoutes(r, logger, deps.MaxUploadBytes); err != nil {
			setupErr = err
			return
		}
		if err := nlqueryFeature.SetupRoutes(r, logger); err != nil {
			setupErr = err
		}
	})

	return setupErr
}

// setupReload wires the dev reload loop: every page holds /reload open and
// reloads itself when the notifier fires. /hotreload fires it by hand.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		updates := notify.Subscribe()
		defer notify.Unsubscribe(updates)

		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		// The first connection after a server restart reloads once to pick
		// up new templates.
		hotReloadOnce.Do(reload)
		select {
		case <-updates:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		notify.Broadcast()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
