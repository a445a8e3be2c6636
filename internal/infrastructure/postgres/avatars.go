package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/publication-admin/internal/domain"
)

// AvatarRepo stores avatars. Every lookup is scoped to the owning user.
type AvatarRepo struct {
	db *sql.DB
}

func NewAvatarRepo(db *sql.DB) *AvatarRepo {
	return &AvatarRepo{db: db}
}

const avatarColumns = `id, user_id, name, text, topics, images, init_persona_task_id,
	init_status, lora_path, lora_name, profile_image`

func (r *AvatarRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Avatar, error) {
	query := `SELECT ` + avatarColumns + ` FROM avatars WHERE user_id = $1`

	var (
		a              domain.Avatar
		topics, images []byte
		taskID         sql.NullString
		loraName       sql.NullString
		status         string
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&a.ID, &a.UserID, &a.Name, &a.Text, &topics, &images, &taskID,
		&status, &a.LoraPath, &loraName, &a.ProfileImage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("avatar: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if a.Topics, err = parseJSONList(topics); err != nil {
		return nil, err
	}
	if a.Images, err = parseJSONList(images); err != nil {
		return nil, err
	}
	a.InitPersonaTaskID = taskID.String
	a.LoraName = loraName.String
	a.InitStatus = domain.InitStatus(status)
	return &a, nil
}

func (r *AvatarRepo) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM avatars WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Create inserts a in CREATED state and fills in its id.
func (r *AvatarRepo) Create(ctx context.Context, a *domain.Avatar) error {
	topics, err := jsonList(a.Topics)
	if err != nil {
		return err
	}
	images, err := jsonList(a.Images)
	if err != nil {
		return err
	}
	query := `INSERT INTO avatars (user_id, name, text, topics, images, init_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	a.InitStatus = domain.InitStatusCreated
	err = r.db.QueryRowContext(ctx, query, a.UserID, a.Name, a.Text, topics, images, string(a.InitStatus)).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("avatar for user %d: %w", a.UserID, domain.ErrConflict)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdateProfile saves name, text and topics and registers the topics in the
// catalog within the same transaction.
func (r *AvatarRepo) UpdateProfile(ctx context.Context, a *domain.Avatar) error {
	topics, err := jsonList(a.Topics)
	if err != nil {
		return err
	}
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE avatars SET name = $3, text = $4, topics = $5 WHERE id = $1 AND user_id = $2`,
			a.ID, a.UserID, a.Name, a.Text, topics)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if err := requireAffected(res, "avatar"); err != nil {
			return err
		}
		return insertTopics(ctx, tx, a.Topics)
	})
}

// UpdateInit saves the initialization fields driven by the ML job.
func (r *AvatarRepo) UpdateInit(ctx context.Context, a *domain.Avatar) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE avatars SET lora_name = $3, init_persona_task_id = $4, init_status = $5, lora_path = $6
		WHERE id = $1 AND user_id = $2`,
		a.ID, a.UserID, nullable(a.LoraName), nullable(a.InitPersonaTaskID), string(a.InitStatus), a.LoraPath)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res, "avatar")
}

// Delete removes the avatar; its posts go with it through the foreign key.
func (r *AvatarRepo) Delete(ctx context.Context, avatarID, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM avatars WHERE id = $1 AND user_id = $2`, avatarID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res, "avatar")
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
