package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/pkg/validate"
	"github.com/publication-admin/internal/transport/http/apierr"
)

// ErrorWriter translates service errors into the API error envelope.
type ErrorWriter struct {
	exposeDetails bool
}

// NewErrorWriter returns a writer that includes internal error text in
// responses only when exposeDetails is set.
func NewErrorWriter(exposeDetails bool) *ErrorWriter {
	return &ErrorWriter{exposeDetails: exposeDetails}
}

type errorMapping struct {
	kind    error
	status  int
	code    apierr.Code
	message string
}

// Checked in order; the first sentinel matched by errors.Is wins.
var errorMappings = []errorMapping{
	{domain.ErrRateLimited, http.StatusTooManyRequests, apierr.AuthEmailCodeRateLimit, "Too many requests"},
	{domain.ErrAuthentication, http.StatusUnauthorized, apierr.AuthInvalidCredentials, "Invalid credentials"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, apierr.AuthUnauthorized, "Could not validate credentials"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, apierr.AuthUnauthorized, "Could not validate credentials"},
	{domain.ErrForbidden, http.StatusForbidden, apierr.AuthForbidden, "Forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, apierr.CommonNotFound, "Entity not found"},
	{domain.ErrAlreadyTriggered, http.StatusBadRequest, apierr.CommonError, "Avatar initialization was already triggered"},
	{domain.ErrNotInitialized, http.StatusBadRequest, apierr.CommonError, "Avatar is not initialized"},
	{domain.ErrBadRequest, http.StatusBadRequest, apierr.CommonError, "Bad request"},
	{domain.ErrConflict, http.StatusConflict, apierr.CommonError, "Conflict"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, apierr.CommonValidationError, "Request data is not valid"},
	{domain.ErrInvalidInput, http.StatusUnprocessableEntity, apierr.CommonValidationError, "Request data is not valid"},
	{domain.ErrNotImplemented, http.StatusNotImplemented, apierr.CommonError, "Not implemented"},
	{domain.ErrServiceUnavailable, http.StatusServiceUnavailable, apierr.CommonError, "Resource is not available now, try later"},
}

// Write sends the envelope matching err.
func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validate.Error
	if errors.As(err, &ve) {
		apierr.Write(w, http.StatusUnprocessableEntity, apierr.CommonValidationError, validationMessage(ve), ve.Fields)
		return
	}

	var ae *domain.AuthenticationError
	if errors.As(err, &ae) {
		apierr.Write(w, http.StatusUnauthorized, apierr.AuthInvalidCredentials, ae.Reason, nil)
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		msg := m.message
		var de *domain.Error
		if errors.As(err, &de) && errors.Is(de.Kind, m.kind) {
			msg = de.Message
		}
		if m.status == http.StatusServiceUnavailable {
			slog.Warn("upstream unavailable", "component", "http", "path", r.URL.Path, "err", err)
		}
		if m.code == apierr.AuthUnauthorized {
			apierr.Unauthorized(w, msg)
			return
		}
		apierr.Write(w, m.status, m.code, msg, nil)
		return
	}

	slog.Error("request failed", "component", "http", "method", r.Method, "path", r.URL.Path, "err", err)
	msg := "Unknown error"
	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	var details any
	if e.exposeDetails {
		details = err.Error()
	}
	apierr.Write(w, http.StatusInternalServerError, apierr.CommonInternalError, msg, details)
}

func validationMessage(ve *validate.Error) string {
	if len(ve.Fields) == 0 {
		return "Request data is not valid"
	}
	msgs := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		msgs = append(msgs, f.Msg)
	}
	return strings.Join(msgs, "; ")
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// Both failures are returned as *validate.Error.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return validate.Body("Field required")
		}
		return validate.Body(fmt.Sprintf("JSON decode error: %v", err))
	}
	return validate.Struct(dst)
}
