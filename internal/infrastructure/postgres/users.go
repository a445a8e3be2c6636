package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/publication-admin/internal/domain"
)

// UserRepo stores accounts. Users are never deleted.
type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Get(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT id, email FROM users WHERE id = $1`
	return r.scanOne(ctx, query, userID)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email FROM users WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

// Create inserts a new user. A duplicate email yields domain.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, email string) (*domain.User, error) {
	query := `INSERT INTO users (email) VALUES ($1) RETURNING id`

	u := &domain.User{Email: email}
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", email, domain.ErrConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}
