package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"practice-quiz-service/internal/app"
	"practice-quiz-service/internal/session"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	store := NewSessionStore(client, time.Minute)

	store.Put(app.NewEntry("s1", "quiz-1", session.New(sampleQuiz()), time.Now()))
	if !mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("quiz:session:s1"); got != "quiz-1" {
		t.Fatalf("expected quiz id as marker value, got %q", got)
	}
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("s1")
	if mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreDropsExpiredSessions(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	store.Put(app.NewEntry("s1", "quiz-1", session.New(sampleQuiz()), time.Now()))

	mr.FastForward(30 * time.Second)
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected live session")
	}
	mr.FastForward(2 * time.Minute)
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected abandoned session dropped")
	}
	store.mu.RLock()
	defer store.mu.RUnlock()
	if _, ok := store.sessions["s1"]; ok {
		t.Fatalf("expected local entry evicted")
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
