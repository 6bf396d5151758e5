package session

import (
	"log/slog"

	"github.com/leapstack-labs/hybridql/internal/connector"
	"github.com/leapstack-labs/hybridql/internal/query"
	"github.com/leapstack-labs/hybridql/internal/uploader"
)

// Backend is everything the panels need from the backend client.
type Backend interface {
	connector.SchemaClient
	uploader.DocumentClient
	query.Client
}

// NewPanels creates a fresh set of panels sharing one backend client.
func NewPanels(client Backend, opts query.Options, logger *slog.Logger) *Panels {
	return &Panels{
		Connector: connector.NewPanel(client, logger),
		Uploader:  uploader.NewPanel(client, logger),
		Query:     query.NewPanel(client, opts, logger),
	}
}
