package avatar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/pkg/sanitize"
)

// profileCaption is the prompt used for every profile picture. The requested
// style is accepted but the images service has no style input yet.
const profileCaption = "Create profile picture"

type Store interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Avatar, error)
	ExistsForUser(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, a *domain.Avatar) error
	UpdateProfile(ctx context.Context, a *domain.Avatar) error
	UpdateInit(ctx context.Context, a *domain.Avatar) error
	Delete(ctx context.Context, avatarID, userID int64) error
}

type ImagesService interface {
	SubmitInitPersona(ctx context.Context, loraName string, s3Paths []string) (*domain.MLTask, error)
	GetInitPersona(ctx context.Context, taskID string) (*domain.MLTask, error)
	SubmitTextToPicture(ctx context.Context, loraName, loraPath, caption string) (*domain.MLTask, error)
	GetTextToPicture(ctx context.Context, taskID string) (*domain.MLTask, error)
}

type TextService interface {
	Bio(ctx context.Context, name, text string, topics []string) (string, error)
}

// MediaURLs turns storage paths into URLs the frontend can load.
type MediaURLs interface {
	URLForPath(path string) string
}

// Recorder receives init state transitions. Optional.
type Recorder interface {
	RecordInitTransition(status string)
}

type Service interface {
	Create(ctx context.Context, userID int64, req domain.CreateAvatarRequest) (*domain.Avatar, error)
	Current(ctx context.Context, userID int64) (*domain.Avatar, error)
	Update(ctx context.Context, userID int64, req domain.UpdateAvatarRequest) (*domain.Avatar, error)
	Delete(ctx context.Context, userID int64) (int64, error)
	GenerateBio(ctx context.Context, req domain.GenerateBioRequest) (string, error)
	TriggerInit(ctx context.Context, userID int64) (domain.InitStatus, error)
	PollInitStatus(ctx context.Context, userID int64) (domain.InitStatus, error)
	GenerateProfileImage(ctx context.Context, userID int64, style string) (string, error)
	ProfileImageStatus(ctx context.Context, taskID string) (*domain.ProfileImageStatus, error)
}

// ServiceDeps bundles the dependencies for the avatar service.
type ServiceDeps struct {
	Avatars Store
	Images  ImagesService
	Text    TextService
	Media   MediaURLs
	Metrics Recorder
}

type service struct {
	avatars Store
	images  ImagesService
	text    TextService
	media   MediaURLs
	metrics Recorder
}

func NewService(deps ServiceDeps) Service {
	return &service{
		avatars: deps.Avatars,
		images:  deps.Images,
		text:    deps.Text,
		media:   deps.Media,
		metrics: deps.Metrics,
	}
}

var errMultipleAvatars = domain.NewError(domain.ErrNotImplemented, "Multiple avatars not supported at the moment")

func (s *service) Create(ctx context.Context, userID int64, req domain.CreateAvatarRequest) (*domain.Avatar, error) {
	exists, err := s.avatars.ExistsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errMultipleAvatars
	}

	a := &domain.Avatar{
		UserID: userID,
		Name:   sanitize.Text(req.Name),
		Text:   sanitize.Text(req.Text),
		Topics: sanitize.Unique(req.Topics),
		Images: trimAll(req.Images),
	}
	if err := s.avatars.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, errMultipleAvatars
		}
		return nil, err
	}
	s.record(a.InitStatus)
	return a, nil
}

func (s *service) Current(ctx context.Context, userID int64) (*domain.Avatar, error) {
	return s.avatars.GetByUserID(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID int64, req domain.UpdateAvatarRequest) (*domain.Avatar, error) {
	a, err := s.avatars.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.Name = sanitize.Text(req.Name)
	a.Text = sanitize.Text(req.Text)
	a.Topics = sanitize.Unique(req.Topics)
	if err := s.avatars.UpdateProfile(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, userID int64) (int64, error) {
	a, err := s.avatars.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, domain.NewError(domain.ErrNotFound, "Avatar not found")
	}
	if err != nil {
		return 0, err
	}
	if err := s.avatars.Delete(ctx, a.ID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.NewError(domain.ErrNotFound, "Avatar not found")
		}
		return 0, err
	}
	return a.ID, nil
}

func (s *service) GenerateBio(ctx context.Context, req domain.GenerateBioRequest) (string, error) {
	bio, err := s.text.Bio(ctx, req.Name, req.Text, req.Topics)
	if err != nil {
		return "", fmt.Errorf("generate bio: %w", err)
	}
	return bio, nil
}

// TriggerInit starts adapter training for a CREATED avatar. Nothing is
// saved unless the images service accepted the job.
func (s *service) TriggerInit(ctx context.Context, userID int64) (domain.InitStatus, error) {
	a, err := s.avatars.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if a.InitStatus != domain.InitStatusCreated {
		return "", domain.ErrAlreadyTriggered
	}

	if err := a.AssignLoraName(); err != nil {
		return "", err
	}
	task, err := s.images.SubmitInitPersona(ctx, a.LoraName, a.Images)
	if err != nil {
		return "", fmt.Errorf("submit init persona: %w", err)
	}

	a.InitPersonaTaskID = task.TaskID
	a.InitStatus = domain.InitStatusPending
	if err := s.avatars.UpdateInit(ctx, a); err != nil {
		return "", err
	}
	slog.Info("avatar init triggered", "component", "avatar", "avatar_id", a.ID, "task_id", task.TaskID)
	s.record(a.InitStatus)
	return a.InitStatus, nil
}

// PollInitStatus asks the images service about a PENDING avatar's job and
// records success. Other states are returned as stored.
func (s *service) PollInitStatus(ctx context.Context, userID int64) (domain.InitStatus, error) {
	a, err := s.avatars.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if a.InitStatus != domain.InitStatusPending {
		return a.InitStatus, nil
	}

	task, err := s.images.GetInitPersona(ctx, a.InitPersonaTaskID)
	if err != nil {
		return "", fmt.Errorf("poll init persona: %w", err)
	}
	if task.Status != domain.MLTaskSuccess || task.ResultPath == "" {
		return a.InitStatus, nil
	}

	a.LoraPath = task.ResultPath
	a.InitStatus = domain.InitStatusSuccess
	if err := s.avatars.UpdateInit(ctx, a); err != nil {
		return "", err
	}
	slog.Info("avatar initialized", "component", "avatar", "avatar_id", a.ID)
	s.record(a.InitStatus)
	return a.InitStatus, nil
}

func (s *service) GenerateProfileImage(ctx context.Context, userID int64, _ string) (string, error) {
	a, err := s.avatars.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if a.InitStatus != domain.InitStatusSuccess {
		return "", domain.ErrNotInitialized
	}

	task, err := s.images.SubmitTextToPicture(ctx, a.LoraName, a.LoraPath, profileCaption)
	if err != nil {
		return "", fmt.Errorf("submit profile image: %w", err)
	}
	return task.TaskID, nil
}

func (s *service) ProfileImageStatus(ctx context.Context, taskID string) (*domain.ProfileImageStatus, error) {
	task, err := s.images.GetTextToPicture(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("profile image status: %w", err)
	}
	st := &domain.ProfileImageStatus{TaskID: task.TaskID, Status: task.Status}
	if task.ResultPath != "" {
		path := task.ResultPath
		url := s.media.URLForPath(path)
		st.ImagePath = &path
		st.ImageURL = &url
	}
	return st, nil
}

func (s *service) record(status domain.InitStatus) {
	if s.metrics != nil {
		s.metrics.RecordInitTransition(string(status))
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
