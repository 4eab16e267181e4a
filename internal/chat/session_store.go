package chat

import (
	"context"
	"sync"
	"time"
)

// SessionStore holds in-progress conversations keyed by normalized
// phone number. Get returns (nil, nil) when the caller has no
// session.
type SessionStore interface {
	Get(ctx context.Context, number string) (*Session, error)
	Put(ctx context.Context, number string, sess *Session) error
	Reset(ctx context.Context, number string, clientID int64) error
}

type memoryEntry struct {
	sess    Session
	touched time.Time
}

// InMemorySessionStore is the default process-local store. Sessions
// idle longer than the TTL are evicted by a janitor goroutine so the
// map cannot grow without bound.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewInMemorySessionStore creates a store evicting sessions idle
// longer than ttl.
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	s := &InMemorySessionStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
	go s.janitor()
	return s
}

// Get returns a copy of the caller's session, or nil.
func (s *InMemorySessionStore) Get(ctx context.Context, number string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[number]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && s.now().Sub(e.touched) > s.ttl {
		return nil, nil
	}
	copied := e.sess
	return &copied, nil
}

// Put stores a copy of the session.
func (s *InMemorySessionStore) Put(ctx context.Context, number string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[number] = &memoryEntry{sess: *sess, touched: s.now()}
	return nil
}

// Reset replaces the caller's session with a fresh main-menu one.
func (s *InMemorySessionStore) Reset(ctx context.Context, number string, clientID int64) error {
	return s.Put(ctx, number, &Session{ClientID: clientID, State: StateMainMenu})
}

func (s *InMemorySessionStore) janitor() {
	if s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.evictIdle(s.now().Add(-s.ttl))
	}
}

func (s *InMemorySessionStore) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for number, e := range s.sessions {
		if e.touched.Before(cutoff) {
			delete(s.sessions, number)
		}
	}
}
