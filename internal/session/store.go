package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/scambait/pkg/logging"
)

// ErrNotFound is returned when a conversation has no state.
var ErrNotFound = errors.New("session: conversation not found")

// Persister keeps snapshots outside the process so a restart can resume
// a conversation.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, conversationID string) (Snapshot, bool, error)
	Delete(ctx context.Context, conversationID string) error
}

type entry struct {
	mu       sync.Mutex
	state    *State
	lastSeen time.Time
	dead     bool // removed from the map; callers must look up again
}

// Store owns every live conversation state. The map lock is only held
// for lookup and insert; each conversation has its own mutex, so calls
// for different ids never wait on each other.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	persister Persister
	logger    *logging.Logger
	now       func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPersister mirrors every update into p.
func WithPersister(p Persister) StoreOption {
	return func(s *Store) { s.persister = p }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates an in-memory store.
func NewStore(logger *logging.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Store{
		entries: make(map[string]*entry),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) lookup(id string) *entry {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return e
	}
	e = &entry{}
	s.entries[id] = e
	return e
}

// acquire returns the locked live entry for id.
func (s *Store) acquire(id string) *entry {
	for {
		e := s.lookup(id)
		e.mu.Lock()
		if !e.dead {
			return e
		}
		e.mu.Unlock()
	}
}

// Do runs fn with exclusive access to the conversation's state, creating
// it on first use. Persistence failures are logged, not returned: the
// in-memory state is authoritative.
func (s *Store) Do(ctx context.Context, conversationID string, fn func(*State)) {
	e := s.acquire(conversationID)
	defer e.mu.Unlock()

	if e.state == nil {
		e.state = s.restore(ctx, conversationID)
	}
	fn(e.state)
	e.lastSeen = s.now()

	if s.persister != nil {
		if err := s.persister.Save(ctx, e.state.Snapshot()); err != nil {
			s.logger.Warn("failed to persist conversation state", "conversation_id", conversationID, "error", err)
		}
	}
}

func (s *Store) restore(ctx context.Context, conversationID string) *State {
	if s.persister != nil {
		snap, ok, err := s.persister.Load(ctx, conversationID)
		if err != nil {
			s.logger.Warn("failed to load conversation state", "conversation_id", conversationID, "error", err)
		} else if ok {
			return FromSnapshot(snap)
		}
	}
	return New(conversationID, s.now())
}

// Snapshot returns a copy of the conversation's state.
func (s *Store) Snapshot(ctx context.Context, conversationID string) (Snapshot, error) {
	s.mu.RLock()
	e, ok := s.entries[conversationID]
	s.mu.RUnlock()
	if !ok {
		if s.persister != nil {
			snap, found, err := s.persister.Load(ctx, conversationID)
			if err != nil {
				return Snapshot{}, err
			}
			if found {
				return snap, nil
			}
		}
		return Snapshot{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return Snapshot{}, ErrNotFound
	}
	return e.state.Snapshot(), nil
}

// Reset zeroes a conversation's totals. Unknown ids get a fresh state.
func (s *Store) Reset(ctx context.Context, conversationID string) Snapshot {
	var snap Snapshot
	s.Do(ctx, conversationID, func(st *State) {
		st.Reset(s.now())
		snap = st.Snapshot()
	})
	return snap
}

// End drops a conversation. It reports whether the id was live.
func (s *Store) End(ctx context.Context, conversationID string) bool {
	s.mu.Lock()
	e, ok := s.entries[conversationID]
	delete(s.entries, conversationID)
	s.mu.Unlock()
	if ok {
		e.mu.Lock()
		e.dead = true
		e.mu.Unlock()
	}

	if s.persister != nil {
		if err := s.persister.Delete(ctx, conversationID); err != nil {
			s.logger.Warn("failed to delete persisted state", "conversation_id", conversationID, "error", err)
		}
	}
	return ok
}

// Len returns the number of live conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops conversations idle for longer than ttl and returns their
// ids. Persisted copies expire on their own TTL.
func (s *Store) Sweep(ttl time.Duration) []string {
	cutoff := s.now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for id, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}
		if !e.lastSeen.IsZero() && e.lastSeen.Before(cutoff) {
			e.dead = true
			delete(s.entries, id)
			removed = append(removed, id)
		}
		e.mu.Unlock()
	}
	return removed
}
