package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"practice-quiz-service/internal/domain"
)

func TestCollectionStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "quizzes.db")

	db, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	store := NewCollectionStore(db)

	empty, err := store.List(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty collection, got %v (%v)", empty, err)
	}
	if err := store.Save(ctx, []domain.Quiz{sampleQuiz()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	db.Close()

	reopened, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	store = NewCollectionStore(reopened)

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(got, []domain.Quiz{sampleQuiz()}) {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = store.List(ctx)
	if len(got) != 0 {
		t.Fatalf("expected cleared collection, got %d", len(got))
	}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:          "quiz-1",
		Title:       "Rivers",
		Description: "Which ones flow through Europe?",
		Questions: []domain.Question{
			{
				Prompt:         "Pick the rivers",
				MultipleAnswer: true,
				Options: []domain.Option{
					{Index: 0, Text: "Danube", IsCorrect: true},
					{Index: 1, Text: "Alps"},
					{Index: 2, Text: "Rhine", IsCorrect: true},
				},
			},
		},
	}
}
