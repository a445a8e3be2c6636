package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/metrics"
)

// Result is a successful sign-in.
type Result struct {
	Token string
	User  *domain.User
}

type Service interface {
	RequestCode(ctx context.Context, email string) error
	Authenticate(ctx context.Context, email, code string) (*Result, error)
}

// ServiceDeps bundles the dependencies for the auth service.
type ServiceDeps struct {
	Codes            EmailCodeStore
	Users            UserStore
	Tokens           TokenSigner
	Mail             Mailer
	Metrics          Recorder
	RateLimitEnabled bool
	Now              func() time.Time
}

type service struct {
	issuer  *EmailCodeIssuer
	authn   *EmailAuthenticator
	tokens  TokenSigner
	mail    Mailer
	metrics Recorder
}

func NewService(deps ServiceDeps) Service {
	return &service{
		issuer:  NewEmailCodeIssuer(deps.Codes, deps.RateLimitEnabled, deps.Now),
		authn:   NewEmailAuthenticator(deps.Codes, deps.Users, deps.Now),
		tokens:  deps.Tokens,
		mail:    deps.Mail,
		metrics: deps.Metrics,
	}
}

func (s *service) RequestCode(ctx context.Context, email string) error {
	tooFast, err := s.issuer.IsSendingTooFast(ctx, email)
	if err != nil {
		return err
	}
	if tooFast {
		return domain.NewError(domain.ErrRateLimited, "You are sending email-code too often, try later")
	}

	code, err := s.issuer.Issue(ctx, email)
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordEmailCodeIssued()
	}

	msg, err := s.issuer.RenderMessage(code)
	if err != nil {
		return err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("deliver email code: %w", err)
	}
	slog.Info("email code issued", "component", "auth", "email", code.Email)
	return nil
}

func (s *service) Authenticate(ctx context.Context, email, code string) (*Result, error) {
	if err := s.authn.Authenticate(ctx, email, code); err != nil {
		if s.metrics != nil && errors.Is(err, domain.ErrAuthentication) {
			s.metrics.RecordAuthAttempt(metrics.AuthRejected)
		}
		return nil, err
	}

	u, err := s.authn.ResolveOrCreateUser(ctx, email)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordAuthAttempt(metrics.AuthSuccess)
	}
	return &Result{Token: token, User: u}, nil
}
