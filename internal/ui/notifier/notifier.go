// Package notifier fans reload signals out to connected browsers.
package notifier

import "sync"

// Notifier delivers pings to every subscriber. A subscriber that has not
// consumed its previous ping does not receive another; one pending ping
// is enough to trigger a reload.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives pings until Unsubscribe is called.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it. Unknown channels
// are ignored, so calling it twice is safe.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Listeners returns the number of live subscriptions.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast pings all listeners without blocking and returns how many
// received a new ping.
func (n *Notifier) Broadcast() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	delivered := 0
	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
			delivered++
		default:
		}
	}
	return delivered
}
