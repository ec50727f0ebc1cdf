package app_test

import (
	"context"
	"errors"
	"testing"

	"practice-quiz-service/internal/app"
	"practice-quiz-service/internal/domain"
	"practice-quiz-service/internal/infra/memory"
)

const geographyDoc = `{
  "title": "Geography",
  "questions": [
    {
      "question": "Capital of France?",
      "options": ["Berlin", "Paris", "Rome"],
      "correctAnswer": 1
    },
    {
      "question": "Which are rivers?",
      "options": [
        {"text": "Danube", "isCorrect": true},
        {"text": "Alps"},
        {"text": "Rhine", "isCorrect": true},
        {"text": "Sahara"}
      ]
    }
  ]
}`

func newService(settings app.Settings) *app.PlayService {
	return app.NewPlayServiceWithSeed(memory.NewCollectionStore(), memory.NewSessionStore(), settings, func() int64 { return 99 })
}

func TestUploadFailureKeepsCollection(t *testing.T) {
	ctx := context.Background()
	svc := newService(app.Settings{})
	if _, err := svc.Upload(ctx, []byte(geographyDoc)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	_, err := svc.Upload(ctx, []byte(`{"title": "Broken", "questions": [{"question": "q", "options": ["only"]}]}`))
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Kind != domain.EmptyOptions {
		t.Fatalf("expected EmptyOptions, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("validation errors must match ErrInvalidQuiz")
	}

	list, err := svc.ListQuizzes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Geography" || list[0].QuestionCount != 2 {
		t.Fatalf("collection changed after failed upload: %+v", list)
	}
}

func TestPlayScoresHalf(t *testing.T) {
	ctx := context.Background()
	svc := newService(app.Settings{})
	q, err := svc.Upload(ctx, []byte(geographyDoc))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	view, err := svc.Start(ctx, q.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	id := view.SessionID

	if _, err := svc.Results(ctx, id); !errors.Is(err, domain.ErrNotFinished) {
		t.Fatalf("expected ErrNotFinished, got %v", err)
	}

	mustSelect(t, svc, id, 0, 1)
	if _, accepted, err := svc.Submit(ctx, id, 0); err != nil || !accepted {
		t.Fatalf("submit: accepted=%v err=%v", accepted, err)
	}
	if _, done, _ := svc.Advance(ctx, id); done {
		t.Fatalf("completed after the first question")
	}
	mustSelect(t, svc, id, 1, 0)
	mustSelect(t, svc, id, 1, 1)
	view, done, err := svc.Advance(ctx, id)
	if err != nil || !done {
		t.Fatalf("expected completion, done=%v err=%v", done, err)
	}
	if view.Question != nil || view.AnsweredCount != 1 {
		t.Fatalf("unexpected final view %+v", view)
	}

	res, err := svc.Results(ctx, id)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if res.Correct != 1 || res.Total != 2 || res.Percentage != 50 {
		t.Fatalf("expected 1/2 50%%, got %+v", res)
	}

	review, err := svc.Review(ctx, id)
	if err != nil || review.Quiz.ID != q.ID {
		t.Fatalf("review: %+v %v", review, err)
	}
}

func TestRevealOnlyAfterSubmit(t *testing.T) {
	ctx := context.Background()
	svc := newService(app.Settings{})
	q, _ := svc.Upload(ctx, []byte(geographyDoc))
	view, _ := svc.Start(ctx, q.ID)

	view = mustSelect(t, svc, view.SessionID, 0, 0)
	if view.Question.Revealed || view.Question.IsCorrect != nil || view.Question.Options[0].IsCorrect != nil {
		t.Fatalf("correctness leaked before submit: %+v", view.Question)
	}
	view, _, _ = svc.Submit(ctx, view.SessionID, 0)
	if !view.Question.Revealed || view.Question.IsCorrect == nil || *view.Question.IsCorrect {
		t.Fatalf("expected revealed wrong answer, got %+v", view.Question)
	}
}

func TestImmediateRevealLocksOnSelect(t *testing.T) {
	ctx := context.Background()
	svc := newService(app.Settings{RevealMode: domain.RevealImmediate})
	q, _ := svc.Upload(ctx, []byte(geographyDoc))
	view, _ := svc.Start(ctx, q.ID)

	view = mustSelect(t, svc, view.SessionID, 0, 1)
	if !view.Question.Locked || !view.Question.Revealed {
		t.Fatalf("single answer must lock on select: %+v", view.Question)
	}
	view = mustSelect(t, svc, view.SessionID, 0, 2)
	if len(view.Question.Selected) != 1 || view.Question.Selected[0] != 1 {
		t.Fatalf("locked selection changed: %v", view.Question.Selected)
	}
}

func TestSubmitOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc := newService(app.Settings{})
	q, _ := svc.Upload(ctx, []byte(geographyDoc))
	view, _ := svc.Start(ctx, q.ID)
	if _, _, err := svc.Submit(ctx, view.SessionID, 7); !errors.Is(err, domain.ErrQuestionOutOfRange) {
		t.Fatalf("expected ErrQuestionOutOfRange, got %v", err)
	}
}

func TestRestartAndEnd(t *testing.T) {
	ctx := context.Background()
	svc := newService(app.Settings{ShuffleOptions: true})
	q, _ := svc.Upload(ctx, []byte(geographyDoc))
	view, _ := svc.Start(ctx, q.ID)
	id := view.SessionID

	mustSelect(t, svc, id, 0, 1)
	svc.Advance(ctx, id)
	svc.Advance(ctx, id)

	view, err := svc.Restart(ctx, id)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if view.Position != 0 || view.AnsweredCount != 0 || view.Question == nil || len(view.Question.Selected) != 0 {
		t.Fatalf("restart must start over: %+v", view)
	}
	if view.SessionID != id {
		t.Fatalf("restart must keep the session id")
	}

	svc.End(ctx, id)
	if _, err := svc.View(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	svc := newService(app.Settings{})
	first, _ := svc.Upload(ctx, []byte(geographyDoc))
	second, _ := svc.Upload(ctx, []byte(geographyDoc))
	if first.ID == second.ID {
		t.Fatalf("uploads without id must get distinct ids")
	}

	if err := svc.DeleteQuiz(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteQuiz(ctx, first.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if _, err := svc.Start(ctx, first.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	if err := svc.ClearQuizzes(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	list, _ := svc.ListQuizzes(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty collection, got %+v", list)
	}
}

func mustSelect(t *testing.T, svc *app.PlayService, id string, q, o int) app.SessionView {
	t.Helper()
	view, err := svc.Select(context.Background(), id, q, o, true)
	if err != nil {
		t.Fatalf("select %d/%d: %v", q, o, err)
	}
	return view
}
