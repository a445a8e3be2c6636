package handler

import (
	"net/http"
	"strings"

	"github.com/publication-admin/internal/application/avatar"
	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/pkg/validate"
)

// AvatarHandler handles the current user's avatar and its ML jobs.
type AvatarHandler struct {
	svc  avatar.Service
	errs *ErrorWriter
}

func NewAvatarHandler(svc avatar.Service, errs *ErrorWriter) *AvatarHandler {
	return &AvatarHandler{svc: svc, errs: errs}
}

func (h *AvatarHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.CreateAvatarRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	a, err := h.svc.Create(r.Context(), u.ID, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAvatarEnvelope(a))
}

func (h *AvatarHandler) Current(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Current(r.Context(), u.ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAvatarEnvelope(a))
}

func (h *AvatarHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.UpdateAvatarRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	a, err := h.svc.Update(r.Context(), u.ID, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAvatarEnvelope(a))
}

func (h *AvatarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := h.svc.Delete(r.Context(), u.ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedAvatarEnvelope{AvatarID: id})
}

func (h *AvatarHandler) GenerateBio(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateBioRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	text, err := h.svc.GenerateBio(r.Context(), req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BioEnvelope{Text: text})
}

func (h *AvatarHandler) TriggerInit(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	st, err := h.svc.TriggerInit(r.Context(), u.ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InitStatusEnvelope{Status: st})
}

func (h *AvatarHandler) InitStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	st, err := h.svc.PollInitStatus(r.Context(), u.ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InitStatusEnvelope{Status: st})
}

func (h *AvatarHandler) GenerateProfileImage(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.GenerateProfileImageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	taskID, err := h.svc.GenerateProfileImage(r.Context(), u.ID, req.Style)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TaskEnvelope{TaskID: taskID})
}

func (h *AvatarHandler) ProfileImageStatus(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimSpace(r.URL.Query().Get("task_id"))
	if taskID == "" {
		h.errs.Write(w, r, &validate.Error{Fields: []validate.FieldError{{
			Type: "missing", Loc: []string{"query", "task_id"}, Msg: "Field required",
		}}})
		return
	}
	st, err := h.svc.ProfileImageStatus(r.Context(), taskID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
