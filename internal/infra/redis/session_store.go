package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"practice-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Play state stays in a local map; a session is owned by the instance
//     that created it.
//   - Redis marks session liveness with a TTL so operators can see how many
//     attempts are running across instances. Once the key expires the local
//     entry is dropped on the next lookup.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Entry
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Entry),
	}
}

func (s *SessionStore) Put(entry *app.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[entry.ID] = entry
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(entry.ID), entry.QuizID, s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.Entry, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || s.ttl <= 0 {
		return entry, ok
	}
	alive, err := s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Result()
	if err == nil && !alive {
		// liveness key expired: the session was abandoned
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, false
	}
	return entry, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
