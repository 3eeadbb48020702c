package settings

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Persister reads and writes the single serialized settings blob.
// A nil Persister keeps settings in memory only.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store owns the session's settings. Core logic receives a Settings value
// at call time; only presentation layers subscribe here for changes.
type Store struct {
	mu      sync.Mutex
	current Settings
	subs    []chan Settings
	p       Persister
}

// NewStore loads the persisted blob if a persister is given. A read or
// parse failure is recovered by falling back to the defaults.
func NewStore(ctx context.Context, p Persister) *Store {
	s := &Store{current: Defaults(), p: p}
	if p != nil {
		data, err := p.Load(ctx)
		if err != nil {
			log.Printf("Settings load failed, using defaults: %v", err)
		} else {
			s.current = Parse(data)
		}
	}
	return s
}

func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update replaces the settings, persists them, and notifies subscribers.
// Notification is best-effort: a subscriber that has not drained its
// channel misses the update, it never blocks the writer.
func (s *Store) Update(ctx context.Context, next Settings) Settings {
	next = next.Normalized()

	s.mu.Lock()
	s.current = next
	subs := make([]chan Settings, len(s.subs))
	copy(subs, s.subs)
	p := s.p
	s.mu.Unlock()

	if p != nil {
		data, err := json.Marshal(next)
		if err == nil {
			err = p.Save(ctx, data)
		}
		if err != nil {
			log.Printf("Settings save failed: %v", err)
		}
	}

	for _, ch := range subs {
		select {
		case ch <- next:
		default:
		}
	}
	return next
}

// Subscribe returns a channel receiving each settings update. The channel
// is buffered by one; slow consumers see only the most recent update.
func (s *Store) Subscribe() <-chan Settings {
	ch := make(chan Settings, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}
