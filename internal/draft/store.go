package draft

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = 10 * time.Minute

// Store is a session-keyed registry of drafts. A draft is created empty on
// first access and swept once its session has been idle past the TTL; drafts
// are never persisted.
type Store struct {
	mu     sync.Mutex
	drafts map[string]*Draft
	ttl    time.Duration
}

// NewStore creates a store that forgets drafts idle longer than ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		drafts: make(map[string]*Draft),
		ttl:    ttl,
	}
}

// Get returns the draft for a session, creating an empty one if needed.
func (s *Store) Get(sessionID string) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[sessionID]
	if !ok {
		d = New()
		s.drafts[sessionID] = d
	}
	return d
}

// Len returns the number of live drafts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Run sweeps abandoned drafts until ctx is done.
// This should be called as a goroutine: go store.Run(ctx)
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, d := range s.drafts {
		if now.Sub(d.LastActive()) > s.ttl {
			delete(s.drafts, id)
		}
	}
}
