package memory

import (
	"testing"
	"time"

	"practice-quiz-service/internal/app"
	"practice-quiz-service/internal/domain"
	"practice-quiz-service/internal/session"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	entry := app.NewEntry("s1", "quiz-1", session.New(sampleQuiz()), time.Now())
	store.Put(entry)
	got, ok := store.Get("s1")
	if !ok || got != entry {
		t.Fatalf("expected session present")
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestExpiringSessionStoreEvictsIdleSessions(t *testing.T) {
	store := NewExpiringSessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return now }

	store.Put(app.NewEntry("idle", "quiz-1", session.New(sampleQuiz()), now))
	store.Put(app.NewEntry("busy", "quiz-1", session.New(sampleQuiz()), now))

	now = now.Add(45 * time.Second)
	if _, ok := store.Get("busy"); !ok {
		t.Fatalf("expected busy session present")
	}
	now = now.Add(45 * time.Second)
	if _, ok := store.Get("idle"); ok {
		t.Fatalf("expected idle session evicted")
	}
	if _, ok := store.Get("busy"); !ok {
		t.Fatalf("touching a session must extend it")
	}

	now = now.Add(2 * time.Minute)
	store.Put(app.NewEntry("fresh", "quiz-1", session.New(sampleQuiz()), now))
	if len(store.sessions) != 1 {
		t.Fatalf("expected put to sweep expired sessions, have %d", len(store.sessions))
	}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Arithmetic",
		Questions: []domain.Question{
			{
				Prompt: "What is 2 + 2?",
				Options: []domain.Option{
					{Index: 0, Text: "3"},
					{Index: 1, Text: "4", IsCorrect: true},
				},
			},
		},
	}
}
