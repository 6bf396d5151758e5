package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// CookieName is the name of the session cookie.
const CookieName = "hybridql_session"

const idKey = "id"

type contextKey struct{}

// Middleware resolves the caller's panels from the session cookie, issuing
// a fresh id when the cookie is missing or cannot be decoded.
func Middleware(cookies sessions.Store, store *Store, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := cookies.Get(r, CookieName)
			if err != nil {
				logger.Debug("discarding unreadable session cookie", "error", err)
			}

			id, _ := sess.Values[idKey].(string)
			if _, perr := uuid.Parse(id); perr != nil {
				id = uuid.NewString()
				sess.Values[idKey] = id
				if err := sess.Save(r, w); err != nil {
					http.Error(w, "failed to save session", http.StatusInternalServerError)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithPanels(r.Context(), store.Get(id))))
		})
	}
}

// FromContext returns the panels attached by Middleware.
func FromContext(ctx context.Context) (*Panels, bool) {
	p, ok := ctx.Value(contextKey{}).(*Panels)
	return p, ok
}

// WithPanels attaches panels to ctx.
func WithPanels(ctx context.Context, p *Panels) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// NewCookieStore builds the cookie store carrying session ids.
func NewCookieStore(secret []byte, maxAge int) *sessions.CookieStore {
	cs := sessions.NewCookieStore(secret)
	cs.MaxAge(maxAge)
	cs.Options.Path = "/"
	cs.Options.HttpOnly = true
	cs.Options.SameSite = http.SameSiteLaxMode
	return cs
}
