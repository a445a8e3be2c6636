package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// InitStatus tracks adapter training for an avatar.
// Transitions only go CREATED -> PENDING -> SUCCESS.
type InitStatus string

const (
	InitStatusCreated InitStatus = "CREATED"
	InitStatusPending InitStatus = "PENDING"
	InitStatusSuccess InitStatus = "SUCCESS"
)

const LoraNameLength = 11

const loraNameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Avatar is the single persona a user manages.
type Avatar struct {
	ID                int64
	UserID            int64
	Name              string
	Text              string
	Topics            []string
	Images            []string
	InitStatus        InitStatus
	InitPersonaTaskID string
	LoraPath          string
	LoraName          string
	ProfileImage      string
}

// AssignLoraName sets a fresh random adapter name of LoraNameLength ASCII letters.
func (a *Avatar) AssignLoraName() error {
	buf := make([]byte, LoraNameLength)
	alphabetLen := big.NewInt(int64(len(loraNameAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return fmt.Errorf("generate lora name: %w", err)
		}
		buf[i] = loraNameAlphabet[n.Int64()]
	}
	a.LoraName = string(buf)
	return nil
}

type CreateAvatarRequest struct {
	Name   string   `json:"name" validate:"required,notblank"`
	Text   string   `json:"text"`
	Topics []string `json:"topics" validate:"required,dive,notblank"`
	Images []string `json:"images" validate:"required,dive,notblank"`
}

type UpdateAvatarRequest struct {
	Name   string   `json:"name" validate:"required,notblank"`
	Text   string   `json:"text"`
	Topics []string `json:"topics" validate:"required,dive,notblank"`
}

type GenerateBioRequest struct {
	Name   string   `json:"name" validate:"required"`
	Text   string   `json:"text"`
	Topics []string `json:"topics" validate:"required"`
}

type GenerateProfileImageRequest struct {
	Style string `json:"style" validate:"required"`
}

// MLTaskStatus is the state reported by the external task service.
type MLTaskStatus string

const (
	MLTaskSuccess MLTaskStatus = "SUCCESS"
	MLTaskPending MLTaskStatus = "PENDING"
	MLTaskStarted MLTaskStatus = "STARTED"
	MLTaskFailure MLTaskStatus = "FAILURE"
)

// MLTask is a job on the external ML service. ResultPath is set only once
// the job succeeded and produced an artifact.
type MLTask struct {
	TaskID     string
	Status     MLTaskStatus
	ResultPath string
}

// ProfileImageStatus describes a profile-picture generation job.
type ProfileImageStatus struct {
	TaskID    string       `json:"task_id"`
	Status    MLTaskStatus `json:"status"`
	ImagePath *string      `json:"image_path"`
	ImageURL  *string      `json:"image_url"`
}
