package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/publication-admin/internal/domain"
)

// PostRepo stores posts. Every query is scoped to an avatar.
type PostRepo struct {
	db DBTX
}

func NewPostRepo(db DBTX) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) ListByAvatar(ctx context.Context, avatarID int64) ([]domain.Post, error) {
	query := `SELECT id, avatar_id, post_text, images, created_at FROM posts
		WHERE avatar_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, avatarID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

func (r *PostRepo) Get(ctx context.Context, avatarID int64, postID uuid.UUID) (*domain.Post, error) {
	query := `SELECT id, avatar_id, post_text, images, created_at FROM posts
		WHERE avatar_id = $1 AND id = $2`

	p, err := scanPost(r.db.QueryRowContext(ctx, query, avatarID, postID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// Create inserts p, assigning a new id; created_at comes from the database.
func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	images, err := jsonList(p.Images)
	if err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `INSERT INTO posts (id, avatar_id, post_text, images)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if err := r.db.QueryRowContext(ctx, query, p.ID, p.AvatarID, p.Text, images).Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, avatarID int64, postID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE avatar_id = $1 AND id = $2`, avatarID, postID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res, "post")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		p      domain.Post
		images []byte
	)
	if err := row.Scan(&p.ID, &p.AvatarID, &p.Text, &images, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	var err error
	if p.Images, err = parseJSONList(images); err != nil {
		return nil, err
	}
	return &p, nil
}
