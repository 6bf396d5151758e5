// Package session keeps per-browser panel state in memory. A cookie holds
// only an opaque id; the panels themselves never leave the process.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/leapstack-labs/hybridql/internal/connector"
	"github.com/leapstack-labs/hybridql/internal/query"
	"github.com/leapstack-labs/hybridql/internal/uploader"
)

// Panels is the state one browser session works with.
type Panels struct {
	Connector *connector.Panel
	Uploader  *uploader.Panel
	Query     *query.Panel
}

// Factory creates the panels for a new session.
type Factory func() *Panels

type entry struct {
	panels   *Panels
	lastSeen time.Time
}

// Store maps session ids to panels and forgets idle sessions.
type Store struct {
	ttl     time.Duration
	factory Factory
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore creates a store. A zero ttl keeps sessions until restart.
func NewStore(ttl time.Duration, factory Factory) *Store {
	return &Store{
		ttl:     ttl,
		factory: factory,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Get returns the panels for id, creating them on first use.
func (s *Store) Get(id string) *Panels {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry{panels: s.factory()}
		s.entries[id] = e
	}
	e.lastSeen = s.now()
	return e.panels
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops sessions idle for longer than the ttl and returns how many
// were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) error {
	if s.ttl <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
