// Package sqlite stores the quiz collection in a local SQLite file, the
// server-side stand-in for a browser's local storage.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite

	"practice-quiz-service/internal/domain"
)

// CollectionName is the fixed row key the collection is stored under.
const CollectionName = "quiz-collection"

const defaultDSN = "file:quizzes.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"

const schema = `
CREATE TABLE IF NOT EXISTS quiz_collections (
  name TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);
`

// Open opens the SQLite file at dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// CollectionStore keeps the quiz collection as one JSON row.
type CollectionStore struct {
	db *sql.DB
}

func NewCollectionStore(db *sql.DB) *CollectionStore {
	return &CollectionStore{db: db}
}

func (s *CollectionStore) List(ctx context.Context) ([]domain.Quiz, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM quiz_collections WHERE name=?`, CollectionName).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	var quizzes []domain.Quiz
	if err := json.Unmarshal([]byte(raw), &quizzes); err != nil {
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
	_, err = s.db.ExecContext(ctx, `INSERT INTO quiz_collections (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`,
		CollectionName, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

func (s *CollectionStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM quiz_collections WHERE name=?`, CollectionName); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	return nil
}
