package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hybridql/internal/backend"
	"github.com/leapstack-labs/hybridql/internal/testutil"
)

type fakeClient struct {
	mu       sync.Mutex
	requests []backend.QueryRequest
	result   *backend.QueryResult
	err      error
	block    chan struct{}
}

func (f *fakeClient) Query(_ context.Context, q backend.QueryRequest) (*backend.QueryResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, q)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.result, f.err
}

func ptr[T any](v T) *T { return &v }

func TestPanel_Submit(t *testing.T) {
	result := &backend.QueryResult{QueryType: backend.QueryTypeSQL, GeneratedSQL: ptr("SELECT 1")}
	client := &fakeClient{result: result}
	p := NewPanel(client, Options{Limit: 10}, testutil.NewTestLogger(t))

	st, err := p.Submit(context.Background(), "How many employees do we have?", nil)
	require.NoError(t, err)

	assert.Same(t, result, st.Result, "payload passed through unmodified")
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
	assert.Equal(t, []backend.QueryRequest{{Query: "How many employees do we have?", Limit: 10}}, client.requests)
}

func TestPanel_ClearsBeforeSending(t *testing.T) {
	client := &fakeClient{err: errors.New("dial tcp: connection refused")}
	p := NewPanel(client, Options{}, nil)

	_, err := p.Submit(context.Background(), "first", nil)
	require.NoError(t, err)
	require.NotEmpty(t, p.State().Error)

	client.err = nil
	client.result = &backend.QueryResult{QueryType: backend.QueryTypeDoc}

	var progress []State
	st, err := p.Submit(context.Background(), "second", func(s State) { progress = append(progress, s) })
	require.NoError(t, err)

	require.Len(t, progress, 1)
	assert.True(t, progress[0].Loading)
	assert.Nil(t, progress[0].Result)
	assert.Empty(t, progress[0].Error)
	assert.Equal(t, backend.QueryTypeDoc, st.Result.QueryType)
}

func TestPanel_FailureDropsResult(t *testing.T) {
	client := &fakeClient{result: &backend.QueryResult{QueryType: backend.QueryTypeSQL}}
	p := NewPanel(client, Options{}, nil)

	_, err := p.Submit(context.Background(), "first", nil)
	require.NoError(t, err)

	client.result = nil
	client.err = &backend.Error{Op: backend.OpQuery, StatusCode: 500, Detail: "LLM timeout"}

	st, err := p.Submit(context.Background(), "second", nil)
	require.NoError(t, err)
	assert.Nil(t, st.Result)
	assert.Equal(t, "LLM timeout", st.Error)
	assert.Error(t, st.Err)
}

func TestPanel_RejectsBlankQuestion(t *testing.T) {
	client := &fakeClient{}
	p := NewPanel(client, Options{}, nil)

	for _, q := range []string{"", "  ", "\t\n"} {
		_, err := p.Submit(context.Background(), q, nil)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	}
	assert.Empty(t, client.requests)
}

func TestPanel_RejectsConcurrentSubmit(t *testing.T) {
	client := &fakeClient{result: &backend.QueryResult{}, block: make(chan struct{})}
	p := NewPanel(client, Options{}, nil)

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Submit(context.Background(), "first", func(State) { close(started) })
	}()
	<-started

	st, err := p.Submit(context.Background(), "second", nil)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, "first", st.Question)

	close(client.block)
	<-done

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Len(t, client.requests, 1)
}
