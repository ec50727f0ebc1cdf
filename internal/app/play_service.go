package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"practice-quiz-service/internal/domain"
	"practice-quiz-service/internal/quiz"
	"practice-quiz-service/internal/scoring"
	"practice-quiz-service/internal/session"
)

// CollectionStore persists the whole quiz collection as one unit (memory, SQLite, Redis, Postgres).
type CollectionStore interface {
	List(ctx context.Context) ([]domain.Quiz, error)
	Save(ctx context.Context, quizzes []domain.Quiz) error
	Clear(ctx context.Context) error
}

// SessionRepository abstracts where live play sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(entry *Entry)
	Get(sessionID string) (*Entry, bool)
	Delete(sessionID string)
}

// Settings are applied to every new session.
type Settings struct {
	RevealMode       domain.RevealMode
	ShuffleQuestions bool
	ShuffleOptions   bool
}

// PlayService contains the quiz collection and play use cases.
type PlayService struct {
	quizzes  CollectionStore
	sessions SessionRepository
	settings Settings
	seed     func() int64
	now      func() time.Time

	// serializes read-modify-write of the collection
	collectionMu sync.Mutex
}

func NewPlayService(quizzes CollectionStore, sessions SessionRepository, settings Settings) *PlayService {
	return NewPlayServiceWithSeed(quizzes, sessions, settings, func() int64 { return time.Now().UnixNano() })
}

// NewPlayServiceWithSeed is test-only for deterministic shuffles.
func NewPlayServiceWithSeed(quizzes CollectionStore, sessions SessionRepository, settings Settings, seed func() int64) *PlayService {
	if settings.RevealMode == "" {
		settings.RevealMode = domain.RevealOnSubmit
	}
	return &PlayService{
		quizzes:  quizzes,
		sessions: sessions,
		settings: settings,
		seed:     seed,
		now:      time.Now,
	}
}

// Entry pairs a play session with the lock that serializes its callers.
type Entry struct {
	ID        string
	QuizID    string
	CreatedAt time.Time

	mu      sync.Mutex
	session *session.Session
}

// NewEntry is exported for infrastructure layers and tests that seed sessions.
func NewEntry(id, quizID string, s *session.Session, createdAt time.Time) *Entry {
	return &Entry{ID: id, QuizID: quizID, CreatedAt: createdAt, session: s}
}

// Upload validates a JSON quiz document and stores it. Nothing is stored
// when validation fails.
func (s *PlayService) Upload(ctx context.Context, data []byte) (domain.Quiz, error) {
	q, err := quiz.Parse(data)
	if err != nil {
		return domain.Quiz{}, err
	}
	return s.store(ctx, q)
}

// UploadDocument is Upload for an already decoded document.
func (s *PlayService) UploadDocument(ctx context.Context, raw any) (domain.Quiz, error) {
	q, err := quiz.Validate(raw)
	if err != nil {
		return domain.Quiz{}, err
	}
	return s.store(ctx, q)
}

func (s *PlayService) store(ctx context.Context, q domain.Quiz) (domain.Quiz, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}

	s.collectionMu.Lock()
	defer s.collectionMu.Unlock()

	current, err := s.quizzes.List(ctx)
	if err != nil {
		return domain.Quiz{}, err
	}
	next := make([]domain.Quiz, 0, len(current)+1)
	replaced := false
	for _, existing := range current {
		if existing.ID == q.ID {
			next = append(next, q)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, q)
	}
	if err := s.quizzes.Save(ctx, next); err != nil {
		return domain.Quiz{}, err
	}
	log.Printf("quiz %s stored (%d questions)", q.ID, len(q.Questions))
	return q, nil
}

// ListQuizzes returns the collection in stored order.
func (s *PlayService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	quizzes, err := s.quizzes.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, q.Summary())
	}
	return out, nil
}

func (s *PlayService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quizzes, err := s.quizzes.List(ctx)
	if err != nil {
		return domain.Quiz{}, err
	}
	for _, q := range quizzes {
		if q.ID == quizID {
			return q, nil
		}
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *PlayService) DeleteQuiz(ctx context.Context, quizID string) error {
	s.collectionMu.Lock()
	defer s.collectionMu.Unlock()

	quizzes, err := s.quizzes.List(ctx)
	if err != nil {
		return err
	}
	next := make([]domain.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if q.ID != quizID {
			next = append(next, q)
		}
	}
	if len(next) == len(quizzes) {
		return domain.ErrQuizNotFound
	}
	return s.quizzes.Save(ctx, next)
}

func (s *PlayService) ClearQuizzes(ctx context.Context) error {
	s.collectionMu.Lock()
	defer s.collectionMu.Unlock()
	return s.quizzes.Clear(ctx)
}

// Start creates a session over a stored quiz.
func (s *PlayService) Start(ctx context.Context, quizID string) (SessionView, error) {
	q, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return SessionView{}, err
	}
	return s.StartQuiz(q), nil
}

// StartQuiz creates a session over an already validated quiz.
func (s *PlayService) StartQuiz(q domain.Quiz) SessionView {
	sess := session.New(q,
		session.WithRevealMode(s.settings.RevealMode),
		session.WithShuffle(s.seed(), s.settings.ShuffleQuestions, s.settings.ShuffleOptions),
	)
	entry := NewEntry(uuid.NewString(), q.ID, sess, s.now())
	s.sessions.Put(entry)
	return newSessionView(entry)
}

func (s *PlayService) View(_ context.Context, sessionID string) (SessionView, error) {
	return s.withSession(sessionID, func(*Entry) error { return nil })
}

func (s *PlayService) Select(_ context.Context, sessionID string, question, option int, selected bool) (SessionView, error) {
	return s.withSession(sessionID, func(e *Entry) error {
		return e.session.SelectOption(question, option, selected)
	})
}

// Submit locks a question. The bool is false when the selection was empty.
func (s *PlayService) Submit(_ context.Context, sessionID string, question int) (SessionView, bool, error) {
	accepted := false
	view, err := s.withSession(sessionID, func(e *Entry) error {
		if question < 0 || question >= len(e.session.Quiz().Questions) {
			return domain.ErrQuestionOutOfRange
		}
		accepted = e.session.Submit(question)
		return nil
	})
	return view, accepted, err
}

// Advance moves forward. The bool reports that the quiz is complete.
func (s *PlayService) Advance(_ context.Context, sessionID string) (SessionView, bool, error) {
	complete := false
	view, err := s.withSession(sessionID, func(e *Entry) error {
		complete = e.session.Advance()
		return nil
	})
	return view, complete, err
}

func (s *PlayService) Retreat(_ context.Context, sessionID string) (SessionView, error) {
	return s.withSession(sessionID, func(e *Entry) error {
		e.session.Retreat()
		return nil
	})
}

// Restart replaces the session state with a fresh attempt at the same quiz.
func (s *PlayService) Restart(_ context.Context, sessionID string) (SessionView, error) {
	return s.withSession(sessionID, func(e *Entry) error {
		e.session = e.session.Restart(s.seed())
		return nil
	})
}

// Results scores a completed session.
func (s *PlayService) Results(_ context.Context, sessionID string) (domain.Result, error) {
	entry, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Result{}, domain.ErrSessionNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.session.Complete() {
		return domain.Result{}, domain.ErrNotFinished
	}
	res, err := scoring.Score(entry.session.Quiz(), entry.session.Selections())
	if errors.Is(err, domain.ErrEmptyQuiz) {
		log.Printf("session %s: scored a quiz without questions", sessionID)
	}
	return res, err
}

// Review is a scored attempt together with the quiz it was taken on.
type Review struct {
	Quiz   domain.Quiz   `json:"quiz"`
	Result domain.Result `json:"result"`
}

// Review scores a completed session and returns it with its quiz.
func (s *PlayService) Review(ctx context.Context, sessionID string) (Review, error) {
	res, err := s.Results(ctx, sessionID)
	if err != nil {
		return Review{}, err
	}
	entry, ok := s.sessions.Get(sessionID)
	if !ok {
		return Review{}, domain.ErrSessionNotFound
	}
	entry.mu.Lock()
	q := entry.session.Quiz()
	entry.mu.Unlock()
	return Review{Quiz: q, Result: res}, nil
}

// End discards a session.
func (s *PlayService) End(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *PlayService) withSession(sessionID string, fn func(e *Entry) error) (SessionView, error) {
	entry, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry); err != nil {
		return SessionView{}, err
	}
	return newSessionView(entry), nil
}
