package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/publication-admin/internal/domain"
)

// EmailAuthenticator checks submitted codes and resolves the account behind them.
type EmailAuthenticator struct {
	codes EmailCodeStore
	users UserStore
	now   func() time.Time
}

func NewEmailAuthenticator(codes EmailCodeStore, users UserStore, now func() time.Time) *EmailAuthenticator {
	if now == nil {
		now = time.Now
	}
	return &EmailAuthenticator{codes: codes, users: users, now: now}
}

// Authenticate consumes the outstanding code for email if it matches.
// Checks run in order: presence, attempts, expiry, value. A wrong value
// costs one attempt.
func (a *EmailAuthenticator) Authenticate(ctx context.Context, email, code string) error {
	email = domain.NormalizeEmail(email)

	c, err := a.codes.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.AuthenticationError{Reason: domain.ReasonNoCode}
	}
	if err != nil {
		return err
	}

	if c.Attempts <= 0 {
		return &domain.AuthenticationError{Reason: domain.ReasonTooManyAttempts}
	}
	if c.Expired(a.now()) {
		return &domain.AuthenticationError{Reason: domain.ReasonExpired}
	}
	if !codesMatch(c.Code, code) {
		if err := a.codes.UpdateAttempts(ctx, email, c.Attempts-1); err != nil {
			return fmt.Errorf("decrement attempts: %w", err)
		}
		return &domain.AuthenticationError{Reason: domain.ReasonInvalidCode}
	}

	if err := a.codes.Delete(ctx, email); err != nil {
		return fmt.Errorf("consume email code: %w", err)
	}
	return nil
}

// ResolveOrCreateUser returns the account for email, registering it on first sign-in.
func (a *EmailAuthenticator) ResolveOrCreateUser(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)

	u, err := a.users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	u, err = a.users.Create(ctx, email)
	if errors.Is(err, domain.ErrConflict) {
		// A concurrent sign-in registered the same email first.
		return a.users.GetByEmail(ctx, email)
	}
	return u, err
}

// codesMatch compares codes in constant time.
func codesMatch(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
