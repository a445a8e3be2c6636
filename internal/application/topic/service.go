package topic

import (
	"context"

	"github.com/publication-admin/internal/domain"
)

type Service interface {
	All(ctx context.Context) ([]domain.Topic, error)
}

type topicStore interface {
	All(ctx context.Context) ([]domain.Topic, error)
}

type service struct {
	repo topicStore
}

func NewService(repo topicStore) Service {
	return &service{repo: repo}
}

// All lists the catalog. It is never nil so it renders as [] when empty.
func (s *service) All(ctx context.Context) ([]domain.Topic, error) {
	topics, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []domain.Topic{}
	}
	return topics, nil
}
