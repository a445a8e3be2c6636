package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/pkg/sanitize"
)

type Service interface {
	List(ctx context.Context, userID int64) ([]domain.Post, error)
	Get(ctx context.Context, userID int64, postID uuid.UUID) (*domain.Post, error)
	Create(ctx context.Context, userID int64, req domain.CreatePostRequest) (*domain.Post, error)
	Delete(ctx context.Context, userID int64, postID uuid.UUID) (uuid.UUID, error)
}

type avatarLookup interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Avatar, error)
}

type postStore interface {
	ListByAvatar(ctx context.Context, avatarID int64) ([]domain.Post, error)
	Get(ctx context.Context, avatarID int64, postID uuid.UUID) (*domain.Post, error)
	Create(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, avatarID int64, postID uuid.UUID) error
}

type service struct {
	avatars avatarLookup
	posts   postStore
}

func NewService(avatars avatarLookup, posts postStore) Service {
	return &service{avatars: avatars, posts: posts}
}

var errPostNotFound = domain.NewError(domain.ErrNotFound, "Post not found")

// avatarID resolves the caller's avatar. Posts always belong to it.
func (s *service) avatarID(ctx context.Context, userID int64) (int64, error) {
	a, err := s.avatars.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, domain.NewError(domain.ErrNotFound, "Avatar not found")
	}
	if err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]domain.Post, error) {
	avatarID, err := s.avatarID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.posts.ListByAvatar(ctx, avatarID)
}

func (s *service) Get(ctx context.Context, userID int64, postID uuid.UUID) (*domain.Post, error) {
	avatarID, err := s.avatarID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.posts.Get(ctx, avatarID, postID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errPostNotFound
	}
	return p, err
}

func (s *service) Create(ctx context.Context, userID int64, req domain.CreatePostRequest) (*domain.Post, error) {
	avatarID, err := s.avatarID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &domain.Post{AvatarID: avatarID, Images: sanitize.List(req.Images)}
	if req.Text != nil {
		p.Text = sanitize.Text(*req.Text)
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, userID int64, postID uuid.UUID) (uuid.UUID, error) {
	avatarID, err := s.avatarID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.posts.Delete(ctx, avatarID, postID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, errPostNotFound
		}
		return uuid.Nil, err
	}
	return postID, nil
}
