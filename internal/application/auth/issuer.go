package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/pkg/otp"
)

// EmailCodeIssuer creates one-time codes and the messages that carry them.
type EmailCodeIssuer struct {
	codes    EmailCodeStore
	throttle bool
	now      func() time.Time
	generate func() (string, error)
}

func NewEmailCodeIssuer(codes EmailCodeStore, throttle bool, now func() time.Time) *EmailCodeIssuer {
	if now == nil {
		now = time.Now
	}
	return &EmailCodeIssuer{codes: codes, throttle: throttle, now: now, generate: otp.Generate}
}

// IsSendingTooFast reports whether the previous code for email is younger
// than domain.EmailCodeSendThrottle. Always false when throttling is off.
func (i *EmailCodeIssuer) IsSendingTooFast(ctx context.Context, email string) (bool, error) {
	if !i.throttle {
		return false, nil
	}
	prev, err := i.codes.Get(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return i.now().Sub(prev.CreatedAt) < domain.EmailCodeSendThrottle, nil
}

// Issue replaces any outstanding code for email with a fresh one.
func (i *EmailCodeIssuer) Issue(ctx context.Context, email string) (*domain.EmailCode, error) {
	code, err := i.generate()
	if err != nil {
		return nil, err
	}
	c := &domain.EmailCode{
		Email:     domain.NormalizeEmail(email),
		Code:      code,
		Attempts:  domain.EmailCodeAttempts,
		CreatedAt: i.now().UTC(),
	}
	if err := i.codes.Replace(ctx, c); err != nil {
		return nil, fmt.Errorf("store email code: %w", err)
	}
	return c, nil
}

// RenderMessage builds the authorization email for c.
func (i *EmailCodeIssuer) RenderMessage(c *domain.EmailCode) (domain.EmailMessage, error) {
	return Render(TemplateEmailCode, emailCodeData(c.Code), c.Email)
}
