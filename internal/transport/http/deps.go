package http

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/publication-admin/internal/application/avatar"
	"github.com/publication-admin/internal/domain"
	jwtinfra "github.com/publication-admin/internal/infrastructure/jwt"
	"github.com/publication-admin/internal/metrics"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, email string) (*domain.User, error)
}

// EmailCodeRepository is the minimal interface the router requires from an email code store.
// Postgres and DynamoDB both provide one.
type EmailCodeRepository interface {
	Get(ctx context.Context, email string) (*domain.EmailCode, error)
	Replace(ctx context.Context, c *domain.EmailCode) error
	UpdateAttempts(ctx context.Context, email string, attempts int) error
	Delete(ctx context.Context, email string) error
}

// AvatarRepository is the minimal interface the router requires from an avatar store.
type AvatarRepository interface {
	avatar.Store
}

// PostRepository is the minimal interface the router requires from a post store.
type PostRepository interface {
	ListByAvatar(ctx context.Context, avatarID int64) ([]domain.Post, error)
	Get(ctx context.Context, avatarID int64, postID uuid.UUID) (*domain.Post, error)
	Create(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, avatarID int64, postID uuid.UUID) error
}

// TopicRepository is the minimal interface the router requires from the topic catalog.
type TopicRepository interface {
	All(ctx context.Context) ([]domain.Topic, error)
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	URL(key string) string
	URLForPath(path string) string
}

// TokenProvider signs and verifies access tokens.
type TokenProvider interface {
	Sign(userID int64, email string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

// Mailer delivers rendered messages.
type Mailer interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Users      UserRepository
	EmailCodes EmailCodeRepository
	Avatars    AvatarRepository
	Posts      PostRepository
	Topics     TopicRepository
	Media      ObjectStore
	Images     avatar.ImagesService
	Text       avatar.TextService
	Mailer     Mailer
	Tokens     TokenProvider

	// Metrics and Gatherer are optional; a private registry is used when nil.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// Now overrides the clock for email code checks. Defaults to time.Now.
	Now func() time.Time
}
