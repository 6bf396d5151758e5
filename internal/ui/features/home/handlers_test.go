package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hybridql/internal/ui/features"
)

func TestHomePage(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantBody []string
		notBody  []string
	}{
		{
			name:  "dev page with hot reload",
			isDev: true,
			wantBody: []string{
				"<!doctype html>",
				"<title>Hybrid NL-to-SQL Engine - HybridQL</title>",
				`id="connector-panel"`,
				`id="uploader-panel"`,
				`id="query-panel"`,
				`id="results-panel"`,
				"data-init",
				"/reload",
				"/static/bundle.js",
			},
		},
		{
			name:     "production page",
			wantBody: []string{"<!doctype html>", "/static/app.css"},
			notBody:  []string{"data-init"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := features.SetupTestFixture(t, features.BackendStub{})
			h := NewHandlers(f.Logger, tt.isDev)

			rec := httptest.NewRecorder()
			h.HomePage(rec, f.Request(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			for _, not := range tt.notBody {
				assert.NotContains(t, body, not)
			}
		})
	}
}

func TestHomePage_RendersSessionState(t *testing.T) {
	f := features.SetupTestFixture(t, features.BackendStub{
		Query: features.JSON(http.StatusOK, map[string]any{
			"results": map[string]any{
				"query_type":  "sql",
				"sql_results": []map[string]any{{"id": 1}},
			},
		}),
	})

	_, err := f.Panels.Query.Submit(context.Background(), "count rows", nil)
	require.NoError(t, err)

	h := NewHandlers(f.Logger, false)
	rec := httptest.NewRecorder()
	h.HomePage(rec, f.Request(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "Query Results (SQL)")
	assert.Contains(t, body, `value="count rows"`)
	assert.Equal(t, 1, f.BackendCalls())
}

func TestHomePage_WithoutSession(t *testing.T) {
	h := NewHandlers(nil, false)
	rec := httptest.NewRecorder()
	h.HomePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="results-panel"`)
}
