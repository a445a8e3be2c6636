package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/publication-admin/internal/domain"
)

// EmailCodeRepo keeps at most one row per normalized email.
type EmailCodeRepo struct {
	db *sql.DB
}

func NewEmailCodeRepo(db *sql.DB) *EmailCodeRepo {
	return &EmailCodeRepo{db: db}
}

func (r *EmailCodeRepo) Get(ctx context.Context, email string) (*domain.EmailCode, error) {
	query := `SELECT email, code, attempts, created_at FROM email_codes WHERE email = $1`

	c := &domain.EmailCode{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&c.Email, &c.Code, &c.Attempts, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("email code: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// Replace deletes any previous code for the email and inserts c in one transaction.
func (r *EmailCodeRepo) Replace(ctx context.Context, c *domain.EmailCode) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM email_codes WHERE email = $1`, c.Email); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO email_codes (email, code, attempts, created_at) VALUES ($1, $2, $3, $4)`,
			c.Email, c.Code, c.Attempts, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (r *EmailCodeRepo) UpdateAttempts(ctx context.Context, email string, attempts int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE email_codes SET attempts = $2 WHERE email = $1`, email, attempts)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res, "email code")
}

func (r *EmailCodeRepo) Delete(ctx context.Context, email string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM email_codes WHERE email = $1`, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// requireAffected maps a zero-row write to domain.ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
