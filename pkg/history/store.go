package history

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/modaledit/vintage/pkg/session"
)

// Store is the command-history storage, addressed by integer index. It
// implements session.HistoryDelegate.
type Store struct {
	logger zerolog.Logger

	mu      sync.Mutex
	entries map[int]any
	next    int
}

// NewStore creates an empty history store.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		logger:  logger.With().Str("component", "history").Logger(),
		entries: make(map[int]any),
	}
}

// Append records an entry under the next index and returns that index.
func (s *Store) Append(entry any) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.next
	s.entries[idx] = entry
	s.next++
	return idx
}

// Get returns the entry at idx.
func (s *Store) Get(idx int) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.entries[idx]
	return v, ok
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ReplaceAll clears the store and repopulates it from entries. Implements
// session.HistoryDelegate; the session loader calls it once per load.
func (s *Store) ReplaceAll(entries map[int]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[int]any, len(entries))
	s.next = 0
	for idx, v := range entries {
		s.entries[idx] = v
		if idx >= s.next {
			s.next = idx + 1
		}
	}

	s.logger.Debug().Int("entries", len(entries)).Msg("History repopulated")
}

// Snapshot returns a copy of the store keyed by index.
func (s *Store) Snapshot() map[int]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]any, len(s.entries))
	for idx, v := range s.entries {
		out[idx] = v
	}
	return out
}

// SyncTo writes the current snapshot into the session store under the
// history key with the persist flag, so the next record save carries it.
func (s *Store) SyncTo(m *session.Manager) error {
	return m.Set(session.KeyHistory, s.Snapshot(), true)
}
