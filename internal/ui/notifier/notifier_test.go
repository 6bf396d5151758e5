package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Listeners())

	n.Unsubscribe(ch)
	assert.Zero(t, n.Listeners())

	_, open := <-ch
	assert.False(t, open, "channel closed on unsubscribe")

	assert.NotPanics(t, func() { n.Unsubscribe(ch) })
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	assert.Equal(t, 2, n.Broadcast())

	for i, ch := range []chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("listener %d did not receive broadcast", i)
		}
	}
}

func TestNotifier_BroadcastCoalesces(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	assert.Equal(t, 1, n.Broadcast())

	done := make(chan int)
	go func() { done <- n.Broadcast() }()

	select {
	case delivered := <-done:
		assert.Zero(t, delivered, "pending ping is not duplicated")
	case <-time.After(100 * time.Millisecond):
		t.Error("Broadcast blocked on full channel")
	}
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast()
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.Zero(t, n.Listeners())
}
