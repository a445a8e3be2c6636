package postgres

import (
	"context"
	"fmt"

	"github.com/publication-admin/internal/domain"
)

// TopicRepo is the global topic catalog. It only grows.
type TopicRepo struct {
	db DBTX
}

func NewTopicRepo(db DBTX) *TopicRepo {
	return &TopicRepo{db: db}
}

func (r *TopicRepo) All(ctx context.Context) ([]domain.Topic, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM topics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	topics := []domain.Topic{}
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return topics, nil
}

func insertTopics(ctx context.Context, q DBTX, names []string) error {
	for _, name := range names {
		if _, err := q.ExecContext(ctx, `INSERT INTO topics (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
