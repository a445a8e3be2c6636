package domain

import (
	"time"

	"github.com/google/uuid"
)

// Topic is an entry of the global topic catalog.
type Topic struct {
	Name string `json:"name"`
}

// Post is a short text published under an avatar.
type Post struct {
	ID        uuid.UUID `json:"uuid"`
	AvatarID  int64     `json:"avatar_id"`
	Text      string    `json:"post_text"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePostRequest struct {
	Text   *string  `json:"post_text"`
	Images []string `json:"images" validate:"dive,notblank"`
}
