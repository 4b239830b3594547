package cards

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps draft sessions and the per-draft lock that serializes
// edits and submits.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	// Acquire takes the lock for a draft. ok is false when another request
	// holds it. The returned token must be handed back to Release.
	Acquire(ctx context.Context, id string) (token string, ok bool, err error)
	// Release frees the lock only if it is still held under token.
	Release(ctx context.Context, id, token string) error
}

// memorySweepInterval caps how often Save scans for expired drafts.
const memorySweepInterval = time.Minute

type memoryEntry struct {
	session  Session
	lastSeen time.Time
}

// InMemorySessionStore is a process-local SessionStore. Drafts idle for
// longer than the TTL are dropped.
type InMemorySessionStore struct {
	mu        sync.Mutex
	sessions  map[string]memoryEntry
	locks     map[string]string
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// MemoryStoreOption configures an InMemorySessionStore.
type MemoryStoreOption func(*InMemorySessionStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(m *InMemorySessionStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewInMemorySessionStore creates an empty store. A ttl of zero keeps drafts
// until the process exits.
func NewInMemorySessionStore(ttl time.Duration, opts ...MemoryStoreOption) *InMemorySessionStore {
	m := &InMemorySessionStore{
		sessions: make(map[string]memoryEntry),
		locks:    make(map[string]string),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastSweep = m.now()
	return m
}

func (m *InMemorySessionStore) Save(ctx context.Context, s *Session) error {
	stored := *s
	if s.Result != nil {
		result := *s.Result
		stored.Result = &result
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sessions[s.ID] = memoryEntry{session: stored, lastSeen: now}
	if now.Sub(m.lastSweep) >= m.sweepInterval() {
		m.sweepLocked(now)
	}
	return nil
}

func (m *InMemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	now := m.now()
	if m.expired(entry, now) {
		delete(m.sessions, id)
		return nil, ErrDraftNotFound
	}
	entry.lastSeen = now
	m.sessions[id] = entry

	stored := entry.session
	if stored.Result != nil {
		result := *stored.Result
		stored.Result = &result
	}
	return &stored, nil
}

func (m *InMemorySessionStore) Acquire(ctx context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[id]; held {
		return "", false, nil
	}
	token := uuid.NewString()
	m.locks[id] = token
	return token, true, nil
}

func (m *InMemorySessionStore) Release(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[id] == token {
		delete(m.locks, id)
	}
	return nil
}

// Len reports how many drafts are stored, expired ones included until the
// next sweep.
func (m *InMemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *InMemorySessionStore) expired(entry memoryEntry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(entry.lastSeen) > m.ttl
}

func (m *InMemorySessionStore) sweepInterval() time.Duration {
	if m.ttl > 0 && m.ttl < memorySweepInterval {
		return m.ttl
	}
	return memorySweepInterval
}

func (m *InMemorySessionStore) sweepLocked(now time.Time) {
	m.lastSweep = now
	if m.ttl <= 0 {
		return
	}
	for id, entry := range m.sessions {
		if m.expired(entry, now) {
			delete(m.sessions, id)
		}
	}
}
