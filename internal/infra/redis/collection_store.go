package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"practice-quiz-service/internal/domain"
)

// CollectionKey is the single fixed key holding the whole collection.
const CollectionKey = "quiz:collection"

// CollectionStore keeps the quiz collection as one JSON blob:
//
//	SET quiz:collection [{"id": ..., "title": ..., "questions": [...]}, ...]
type CollectionStore struct {
	client *redis.Client
}

func NewCollectionStore(client *redis.Client) *CollectionStore {
	return &CollectionStore{client: client}
}

func (s *CollectionStore) List(ctx context.Context) ([]domain.Quiz, error) {
	raw, err := s.client.Get(ctx, CollectionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	var quizzes []domain.Quiz
	if err := json.Unmarshal(raw, &quizzes); err != nil {
		return nil, fmt.Errorf("unmarshal collection: %w", err)
	}
	return quizzes, nil
}

func (s *CollectionStore) Save(ctx context.Context, quizzes []domain.Quiz) error {
	data, err := json.Marshal(quizzes)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if err := s.client.Set(ctx, CollectionKey, data, 0).Err(); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}

func (s *CollectionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, CollectionKey).Err()
}
