package user

import (
	"context"

	"github.com/publication-admin/internal/domain"
)

type Service interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

// Get returns the account behind a verified token. Accounts are never
// deleted, so domain.ErrNotFound here means the token outlived its user.
func (s *service) Get(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}
