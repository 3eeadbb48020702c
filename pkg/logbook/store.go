package logbook

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"readyroom/pkg/cache"
)

// StorageKey holds the whole log as one serialized JSON array, mirroring
// the original client's single localStorage entry.
const StorageKey = "captainsLog"

// Store keeps the captain's log in memory and mirrors every change to
// redis when a cache is configured. The in-memory slice is authoritative
// for the lifetime of the process; the blob is loaded once at startup and
// rewritten on every change.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	cache   *cache.Cache
	key     string
}

// NewStore loads any persisted log. Malformed or unreadable stored data is
// discarded and the log starts empty; that is a recovery, not an error.
func NewStore(ctx context.Context, c *cache.Cache) *Store {
	s := &Store{cache: c}
	if c == nil {
		return s
	}
	s.key = c.Key(StorageKey)

	var entries []Entry
	err := c.GetJSON(ctx, s.key, &entries)
	switch {
	case err == redis.Nil:
	case err != nil:
		log.Printf("Captain's log load failed, starting empty: %v", err)
	default:
		s.entries = entries
		log.Printf("Loaded %d captain's log entries", len(entries))
	}
	return s
}

// Entries returns the log in insertion order (oldest first).
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Append archives an entry. Saving the same (dilemma, advice) pair again
// is a no-op: the existing entry is returned and the second return is
// false. A missing ID or timestamp is filled in.
func (s *Store) Append(ctx context.Context, e Entry) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.entries {
		if existing.Dilemma == e.Dilemma && existing.Advice == e.Advice {
			return existing, false
		}
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	s.entries = append(s.entries, e)
	s.persistLocked(ctx)
	return e, true
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, s.key, s.entries, 0); err != nil {
		log.Printf("Captain's log save failed: %v", err)
	}
}
