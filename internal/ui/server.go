// Package ui serves the browser face of hybridql: one page with the
// connector, uploader, query and results panels, patched over SSE.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/hybridql/internal/query"
	"github.com/leapstack-labs/hybridql/internal/ui/notifier"
	"github.com/leapstack-labs/hybridql/internal/ui/resources"
	"github.com/leapstack-labs/hybridql/internal/ui/router"
	"github.com/leapstack-labs/hybridql/internal/ui/session"
)

const (
	defaultSessionTTL = 24 * time.Hour
	sweepInterval     = time.Minute
	shutdownTimeout   = 5 * time.Second
	debounceDelay     = 100 * time.Millisecond
)

// Config holds configuration for the UI server.
type Config struct {
	Backend        session.Backend
	QueryOptions   query.Options
	Host           string
	Port           int
	Watch          bool
	SessionSecret  string
	SessionTTL     time.Duration
	MaxUploadBytes int64
	Logger         *slog.Logger

	// OnReady is called with the base URL once the listener is bound.
	OnReady func(url string)
}

// Server is the main UI server.
type Server struct {
	cfg      Config
	cookies  *sessions.CookieStore
	sessions *session.Store
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Backend == nil {
		return nil, errors.New("ui: backend client is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		// Sessions then only last as long as the process, which matches
		// the in-memory panel store.
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, errors.New("ui: failed to generate session secret")
		}
	}

	logger := cfg.Logger
	factory := func() *session.Panels {
		return session.NewPanels(cfg.Backend, cfg.QueryOptions, logger)
	}

	return &Server{
		cfg:      cfg,
		cookies:  session.NewCookieStore(secret, int(cfg.SessionTTL.Seconds())),
		sessions: session.NewStore(cfg.SessionTTL, factory),
		notifier: notifier.New(),
		logger:   logger,
	}, nil
}

// Handler builds the full HTTP handler, compiling the browser bundle.
func (s *Server) Handler() (http.Handler, *resources.Bundle, error) {
	bundle, err := resources.NewBundle(resources.FS(), !s.IsDev())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build bundle: %w", err)
	}

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, router.Deps{
		Cookies:        s.cookies,
		Sessions:       s.sessions,
		Notifier:       s.notifier,
		Bundle:         bundle,
		Logger:         s.logger,
		MaxUploadBytes: s.cfg.MaxUploadBytes,
		IsDev:          s.IsDev(),
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, bundle, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, bundle, err := s.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port)))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	url := "http://" + displayAddr(ln.Addr())
	s.logger.Info("starting UI server", "addr", url)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch {
		eg.Go(func() error {
			return s.watchFiles(egctx, bundle)
		})
	}

	eg.Go(func() error {
		return s.sessions.Run(egctx, sweepInterval, func(removed int) {
			s.logger.Debug("expired idle sessions", "removed", removed, "live", s.sessions.Len())
		})
	})

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	if s.cfg.OnReady != nil {
		s.cfg.OnReady(url)
	}

	return eg.Wait()
}

// IsDev reports whether dev features (hot reload, unminified bundle) are on.
func (s *Server) IsDev() bool {
	return s.cfg.Watch
}

// Notifier returns the server's notifier for reload signals.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles rebuilds the bundle and reloads browsers when static assets change.
func (s *Server) watchFiles(ctx context.Context, bundle *resources.Bundle) error {
	dir := resources.Dir()
	if dir == "" {
		s.logger.Warn("asset watching needs a dev build; static files are embedded")
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		s.logger.Error("failed to watch static directory", "path", dir, "error", err)
		// Don't fail - continue without watching
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			ext := filepath.Ext(event.Name)
			if ext != ".js" && ext != ".css" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.logger.Debug("static asset changed", "file", event.Name)
				if err := bundle.Rebuild(); err != nil {
					s.logger.Error("bundle rebuild failed", "error", err)
					return
				}
				s.notifier.Broadcast()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func displayAddr(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return addr.String()
	}
	host := tcp.IP.String()
	if tcp.IP.IsUnspecified() {
		host = "localhost"
	}
	return net.JoinHostPort(host, fmt.Sprint(tcp.Port))
}
