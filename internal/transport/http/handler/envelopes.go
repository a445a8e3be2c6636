package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/transport/http/apierr"
)

// TokenEnvelope wraps a successful authentication.
type TokenEnvelope struct {
	AccessToken string `json:"access_token"`
}

// AvatarEnvelope is the public view of an avatar.
type AvatarEnvelope struct {
	Name           string   `json:"name"`
	Text           string   `json:"text"`
	Topics         []string `json:"topics"`
	Images         []string `json:"images"`
	ProfilePicture *string  `json:"profile_picture"`
}

func toAvatarEnvelope(a *domain.Avatar) AvatarEnvelope {
	env := AvatarEnvelope{
		Name:   a.Name,
		Text:   a.Text,
		Topics: nonNil(a.Topics),
		Images: nonNil(a.Images),
	}
	if a.ProfileImage != "" {
		pic := a.ProfileImage
		env.ProfilePicture = &pic
	}
	return env
}

type DeletedAvatarEnvelope struct {
	AvatarID int64 `json:"avatar_id"`
}

type InitStatusEnvelope struct {
	Status domain.InitStatus `json:"status"`
}

type BioEnvelope struct {
	Text string `json:"text"`
}

type TaskEnvelope struct {
	TaskID string `json:"task_id"`
}

type DeletedPostEnvelope struct {
	DeletedPostUUID uuid.UUID `json:"deleted_post_uuid"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	apierr.WriteJSON(w, status, v)
}
