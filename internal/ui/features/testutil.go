// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hybridql/internal/backend"
	"github.com/leapstack-labs/hybridql/internal/query"
	"github.com/leapstack-labs/hybridql/internal/testutil"
	"github.com/leapstack-labs/hybridql/internal/ui/session"
)

// BackendStub configures the fake backend. Nil handlers answer 404.
type BackendStub struct {
	Connect http.HandlerFunc
	Upload  http.HandlerFunc
	Query   http.HandlerFunc
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Backend      *httptest.Server
	Client       *backend.Client
	Panels       *session.Panels
	SessionStore *sessions.CookieStore
	Logger       *slog.Logger

	calls atomic.Int64
}

// SetupTestFixture starts a fake backend and builds one session's panels
// against it.
func SetupTestFixture(t *testing.T, stub BackendStub) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	f := &TestFixture{Logger: logger}

	mux := http.NewServeMux()
	route := func(path string, h http.HandlerFunc) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			f.calls.Add(1)
			if h == nil {
				http.NotFound(w, r)
				return
			}
			h(w, r)
		})
	}
	route(backend.PathConnectDatabase, stub.Connect)
	route(backend.PathUploadDocuments, stub.Upload)
	route(backend.PathQuery, stub.Query)

	f.Backend = httptest.NewServer(mux)
	t.Cleanup(f.Backend.Close)

	client, err := backend.New(backend.Config{BaseURL: f.Backend.URL, Logger: logger})
	require.NoError(t, err)

	f.Client = client
	f.Panels = session.NewPanels(client, query.Options{}, logger)
	f.SessionStore = NewTestSessionStore()
	return f
}

// BackendCalls returns how many requests reached the fake backend.
func (f *TestFixture) BackendCalls() int {
	return int(f.calls.Load())
}

// Request builds a request carrying the fixture's panels.
func (f *TestFixture) Request(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(session.WithPanels(req.Context(), f.Panels))
}

// SignalsRequest builds a datastar POST with signals as its JSON body.
func (f *TestFixture) SignalsRequest(t *testing.T, target string, signals any) *http.Request {
	t.Helper()
	body, err := json.Marshal(signals)
	require.NoError(t, err)
	req := f.Request(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// JSON writes v as a JSON response.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return session.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"), 3600)
}
