package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/publication-admin/internal/application/post"
	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/pkg/validate"
)

// PostHandler handles posts of the current user's avatar.
type PostHandler struct {
	svc  post.Service
	errs *ErrorWriter
}

func NewPostHandler(svc post.Service, errs *ErrorWriter) *PostHandler {
	return &PostHandler{svc: svc, errs: errs}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	posts, err := h.svc.List(r.Context(), u.ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), u.ID, id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.CreatePostRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), u.ID, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	deleted, err := h.svc.Delete(r.Context(), u.ID, id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedPostEnvelope{DeletedPostUUID: deleted})
}

func (h *PostHandler) postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "post_uuid")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.errs.Write(w, r, &validate.Error{Fields: []validate.FieldError{{
			Type: "uuid_parsing", Loc: []string{"path", "post_uuid"}, Msg: "Input should be a valid UUID", Input: raw,
		}}})
		return uuid.Nil, false
	}
	return id, true
}
