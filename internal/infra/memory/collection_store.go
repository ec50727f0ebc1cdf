package memory

import (
	"context"
	"sync"

	"practice-quiz-service/internal/domain"
)

// CollectionStore keeps the quiz collection in process memory (useful for tests/demos).
type CollectionStore struct {
	mu      sync.RWMutex
	quizzes []domain.Quiz
}

func NewCollectionStore(seed ...domain.Quiz) *CollectionStore {
	return &CollectionStore{quizzes: append([]domain.Quiz(nil), seed...)}
}

func (s *CollectionStore) List(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Quiz(nil), s.quizzes...), nil
}

func (s *CollectionStore) Save(_ context.Context, quizzes []domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes = append([]domain.Quiz(nil), quizzes...)
	return nil
}

func (s *CollectionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes = nil
	return nil
}
