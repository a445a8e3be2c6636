package auth

import (
	"context"

	"github.com/publication-admin/internal/domain"
)

// EmailCodeStore keeps the single outstanding code per normalized email.
// Get returns domain.ErrNotFound when there is none.
type EmailCodeStore interface {
	Get(ctx context.Context, email string) (*domain.EmailCode, error)
	Replace(ctx context.Context, c *domain.EmailCode) error
	UpdateAttempts(ctx context.Context, email string, attempts int) error
	Delete(ctx context.Context, email string) error
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, email string) (*domain.User, error)
}

type TokenSigner interface {
	Sign(userID int64, email string) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// Recorder receives auth metrics. Optional.
type Recorder interface {
	RecordAuthAttempt(result string)
	RecordEmailCodeIssued()
}
