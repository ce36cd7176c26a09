// Package viewstate keeps each session's inventory view state in memory.
package viewstate

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dukerupert/nomadcloset/internal/inventory"
)

type entry struct {
	mu    sync.Mutex
	state *inventory.State
}

// Store maps session ids to view state. Entries expire after ttl without use.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func New(ttl time.Duration) *Store {
	return &Store{cache: cache.New(ttl, ttl*2)}
}

func (s *Store) entry(sessionID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(sessionID); ok {
		e := v.(*entry)
		s.cache.SetDefault(sessionID, e)
		return e
	}
	e := &entry{state: inventory.NewState()}
	s.cache.SetDefault(sessionID, e)
	return e
}

// Update runs fn with the session's state locked. A new session starts on the
// "all" view with nothing selected.
func (s *Store) Update(sessionID string, fn func(*inventory.State) error) error {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.state)
}

// Delete drops the session's state, for example on logout.
func (s *Store) Delete(sessionID string) {
	s.cache.Delete(sessionID)
}

// Len reports how many sessions hold state.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
