package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"practice-quiz-service/internal/domain"
)

// CollectionName is the fixed row key the collection is stored under.
const CollectionName = "quiz-collection"

// CollectionStore keeps the quiz collection as JSONB in Postgres.
type CollectionStore struct {
	pool *pgxpool.Pool
}

func NewCollectionStore(pool *pgxpool.Pool) *CollectionStore {
	return &CollectionStore{pool: pool}
}

func (s *CollectionStore) List(ctx context.Context) ([]domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quiz_collections WHERE name=$1`, CollectionName).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	var quizzes []domain.Quiz
	if err := json.Unmarshal(raw, &quizzes); err != nil {
		return nil, fmt.Errorf("unmarshal collection: %w", err)
	}
	return quizzes, nil
}

func (s *CollectionStore) Save(ctx context.Context, quizzes []domain.Quiz) error {
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	data, err := json.Marshal(quizzes)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO quiz_collections (name, data, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (name) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		CollectionName, string(data))
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

func (s *CollectionStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM quiz_collections WHERE name=$1`, CollectionName); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	return nil
}
