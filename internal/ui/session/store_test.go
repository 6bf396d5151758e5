package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hybridql/internal/query"
)

func newPanels() *Panels {
	return &Panels{Query: query.NewPanel(nil, query.Options{}, nil)}
}

func TestStore_GetCreatesOnce(t *testing.T) {
	s := NewStore(time.Hour, newPanels)

	a := s.Get("a")
	assert.Same(t, a, s.Get("a"))
	assert.NotSame(t, a, s.Get("b"))
	assert.Equal(t, 2, s.Len())
}

func TestStore_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Hour, newPanels)
	s.now = func() time.Time { return now }

	s.Get("old")
	now = now.Add(50 * time.Minute)
	s.Get("fresh")
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, s.Sweep())
	assert.Zero(t, s.Len())
}

func TestStore_NoTTLKeepsSessions(t *testing.T) {
	s := NewStore(0, newPanels)
	s.Get("a")
	assert.Zero(t, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestStore_RunStopsWithContext(t *testing.T) {
	s := NewStore(time.Millisecond, newPanels)
	s.Get("a")

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, time.Millisecond, func(n int) {
			select {
			case swept <- n:
			default:
			}
		})
	}()

	select {
	case n := <-swept:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not run")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestMiddleware_IssuesAndReusesID(t *testing.T) {
	store := NewStore(time.Hour, newPanels)
	cookies := NewCookieStore([]byte("test-secret-key-32-bytes-long!!"), 3600)

	var seen []*Panels
	h := Middleware(cookies, store, nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		require.True(t, ok)
		seen = append(seen, p)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	resp := rec.Result()
	cookiesSet := resp.Cookies()
	require.Len(t, cookiesSet, 1)
	assert.Equal(t, CookieName, cookiesSet[0].Name)
	assert.True(t, cookiesSet[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookiesSet[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies(), "existing session is not re-issued")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, seen, 3)
	assert.Same(t, seen[0], seen[1])
	assert.NotSame(t, seen[0], seen[2])
	assert.Equal(t, 2, store.Len())
}

func TestMiddleware_TamperedCookie(t *testing.T) {
	store := NewStore(time.Hour, newPanels)
	cookies := NewCookieStore([]byte("test-secret-key-32-bytes-long!!"), 3600)

	h := Middleware(cookies, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, rec.Result().Cookies(), 1, "fresh cookie issued")
}
