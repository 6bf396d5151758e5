// Package query implements the natural-language query panel.
package query

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/leapstack-labs/hybridql/internal/backend"
)

var (
	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrBusy is returned while a question is being answered.
	ErrBusy = errors.New("query already in progress")
)

// Client is the backend call the panel depends on.
type Client interface {
	Query(ctx context.Context, q backend.QueryRequest) (*backend.QueryResult, error)
}

// Options are forwarded with every question.
type Options struct {
	Limit  int
	Offset int
}

// State is a snapshot of the panel. Result and Error are never both set.
type State struct {
	Question string
	Result   *backend.QueryResult
	Error    string
	Err      error
	Loading  bool
}

// Panel holds query state. It allows one question at a time.
type Panel struct {
	client Client
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// NewPanel creates a query panel backed by client.
func NewPanel(client Client, opts Options, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Panel{client: client, opts: opts, logger: logger}
}

// State returns the current snapshot.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Submit asks the backend one question. The previous result and error
// are cleared and reported through progress before the request is sent.
// Backend failures end up in the returned state; the error is only
// ErrEmptyQuestion or ErrBusy, in which case no request is made.
func (p *Panel) Submit(ctx context.Context, question string, progress func(State)) (State, error) {
	if strings.TrimSpace(question) == "" {
		return p.State(), ErrEmptyQuestion
	}

	p.mu.Lock()
	if p.state.Loading {
		st := p.state
		p.mu.Unlock()
		return st, ErrBusy
	}
	p.state = State{Question: question, Loading: true}
	loading := p.state
	p.mu.Unlock()

	if progress != nil {
		progress(loading)
	}

	p.logger.Info("submitting query", "question", question)
	res, err := p.client.Query(ctx, backend.QueryRequest{
		Query:  question,
		Limit:  p.opts.Limit,
		Offset: p.opts.Offset,
	})

	final := State{Question: question}
	if err != nil {
		final.Err = err
		final.Error = backend.Message(err)
		p.logger.Warn("query failed", "error", err)
	} else {
		final.Result = res
		if res != nil {
			p.logger.Info("query answered", "query_type", res.QueryType, "rows", len(res.SQLResults), "docs", len(res.DocResults))
		}
	}

	p.mu.Lock()
	p.state = final
	p.mu.Unlock()
	return final, nil
}
