package memory

import (
	"sync"
	"time"

	"practice-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// With a TTL, sessions idle for longer than the TTL are evicted.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	clock    func() time.Time
	sessions map[string]*storedSession
}

type storedSession struct {
	entry    *app.Entry
	lastSeen time.Time
}

func NewSessionStore() *SessionStore {
	return NewExpiringSessionStore(0)
}

// NewExpiringSessionStore evicts sessions not touched within ttl. A zero ttl keeps them until Delete.
func NewExpiringSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]*storedSession),
	}
}

func (s *SessionStore) Put(entry *app.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.sweep(now)
	s.sessions[entry.ID] = &storedSession{entry: entry, lastSeen: now}
}

func (s *SessionStore) Get(sessionID string) (*app.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	now := s.clock()
	if s.expired(stored, now) {
		delete(s.sessions, sessionID)
		return nil, false
	}
	stored.lastSeen = now
	return stored.entry, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *SessionStore) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, stored := range s.sessions {
		if s.expired(stored, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) expired(stored *storedSession, now time.Time) bool {
	return s.ttl > 0 && now.Sub(stored.lastSeen) > s.ttl
}
