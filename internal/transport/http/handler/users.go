package handler

import (
	"net/http"

	"github.com/publication-admin/internal/application/user"
	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/transport/http/apierr"
	"github.com/publication-admin/internal/transport/http/middleware"
)

// UserHandler serves the current user.
type UserHandler struct {
	svc  user.Service
	errs *ErrorWriter
}

func NewUserHandler(svc user.Service, errs *ErrorWriter) *UserHandler {
	return &UserHandler{svc: svc, errs: errs}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := currentUser(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Get(r.Context(), current.ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// currentUser returns the user set by middleware.Auth, writing a 401 when absent.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		apierr.Unauthorized(w, "No credentials")
		return nil, false
	}
	return u, true
}
