// Package connector implements the database connector panel: it
// normalizes a connection string, asks the backend to introspect the
// datastore and keeps the resulting schema and status line.
package connector

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/hybridql/internal/backend"
)

// Status lines.
const (
	StatusConnecting = "Connecting..."
	StatusConnected  = "Connected successfully! Schema analyzed."
)

var (
	// ErrEmptyInput is returned when the connection string is empty.
	ErrEmptyInput = errors.New("connection string is empty")
	// ErrBusy is returned while a connection attempt is in flight.
	ErrBusy = errors.New("connection attempt already in progress")
)

// SchemaClient is the backend call the panel depends on.
type SchemaClient interface {
	ConnectDatabase(ctx context.Context, connectionString string) (*backend.Schema, error)
}

// State is a snapshot of the panel.
type State struct {
	Input      string
	Normalized string
	Target     string
	Status     string
	Schema     *backend.Schema
	Failure    Failure
	Err        error
	Loading    bool
}

// Failed reports whether the last attempt ended in an error.
func (s State) Failed() bool {
	return s.Err != nil
}

// Panel holds connector state. It allows one attempt at a time.
type Panel struct {
	client SchemaClient
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// NewPanel creates a connector panel backed by client.
func NewPanel(client SchemaClient, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Panel{client: client, logger: logger}
}

// State returns the current snapshot.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Connect runs one connection attempt. progress, when non-nil, is called
// with the loading state before the backend is contacted. Backend failures
// are folded into the returned state; the error is only ErrEmptyInput or
// ErrBusy, in which case no request is made.
func (p *Panel) Connect(ctx context.Context, raw string, progress func(State)) (State, error) {
	if raw == "" {
		return p.State(), ErrEmptyInput
	}

	p.mu.Lock()
	if p.state.Loading {
		st := p.state
		p.mu.Unlock()
		return st, ErrBusy
	}
	normalized := Normalize(raw)
	target := ""
	if t, ok := Describe(normalized); ok {
		target = t.String()
	}
	p.state = State{
		Input:      raw,
		Normalized: normalized,
		Target:     target,
		Status:     StatusConnecting,
		Loading:    true,
	}
	loading := p.state
	p.mu.Unlock()

	if progress != nil {
		progress(loading)
	}

	p.logger.Info("connecting datastore", "target", target)
	schema, err := p.client.ConnectDatabase(ctx, normalized)

	final := loading
	final.Loading = false
	if err != nil {
		msg := backend.Message(err)
		final.Failure = Classify(msg)
		final.Status = final.Failure.Message(msg)
		final.Err = err
		p.logger.Warn("connect failed", "target", target, "failure", final.Failure, "error", err)
	} else {
		if schema == nil {
			schema = &backend.Schema{}
		}
		final.Schema = schema
		final.Status = StatusConnected
		p.logger.Info("connected", "target", target, "tables", len(schema.Tables))
	}

	p.mu.Lock()
	p.state = final
	p.mu.Unlock()
	return final, nil
}
