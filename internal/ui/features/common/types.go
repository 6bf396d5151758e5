// Package common provides shared types and utilities for UI features.
package common

import (
	"github.com/leapstack-labs/hybridql/internal/connector"
	"github.com/leapstack-labs/hybridql/internal/query"
	"github.com/leapstack-labs/hybridql/internal/results"
	"github.com/leapstack-labs/hybridql/internal/ui/session"
	"github.com/leapstack-labs/hybridql/internal/uploader"
)

// Element ids patched over SSE.
const (
	ConnectorPanelID = "connector-panel"
	UploaderPanelID  = "uploader-panel"
	QueryPanelID     = "query-panel"
	ResultsPanelID   = "results-panel"
)

// PageData holds everything needed to render the full page.
type PageData struct {
	Title     string
	IsDev     bool
	Connector connector.State
	Uploader  uploader.State
	Query     query.State
	Results   results.View
}

// BuildPageData snapshots the panels of one session.
func BuildPageData(title string, isDev bool, p *session.Panels) PageData {
	data := PageData{Title: title, IsDev: isDev}
	if p == nil {
		return data
	}
	if p.Connector != nil {
		data.Connector = p.Connector.State()
	}
	if p.Uploader != nil {
		data.Uploader = p.Uploader.State()
	}
	if p.Query != nil {
		data.Query = p.Query.State()
		data.Results = results.Build(data.Query.Result)
	}
	return data
}
