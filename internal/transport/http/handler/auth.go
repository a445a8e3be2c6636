package handler

import (
	"net/http"

	"github.com/publication-admin/internal/application/auth"
	"github.com/publication-admin/internal/domain"
)

// AuthHandler handles email-code sign-in.
type AuthHandler struct {
	svc  auth.Service
	errs *ErrorWriter
}

func NewAuthHandler(svc auth.Service, errs *ErrorWriter) *AuthHandler {
	return &AuthHandler{svc: svc, errs: errs}
}

func (h *AuthHandler) GetCode(w http.ResponseWriter, r *http.Request) {
	var req domain.GetCodeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if err := h.svc.RequestCode(r.Context(), req.Email); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthenticateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	res, err := h.svc.Authenticate(r.Context(), req.Email, req.Code)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{AccessToken: res.Token})
}
