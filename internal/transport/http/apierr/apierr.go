// Package apierr holds the JSON error envelope shared by handlers and middleware.
package apierr

import (
	"encoding/json"
	"net/http"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CommonError           Code = "common.error"
	CommonValidationError Code = "common.validation_error"
	CommonInternalError   Code = "common.internal_error"
	CommonNotFound        Code = "common.not_found"

	AuthEmailCodeRateLimit Code = "auth.email_code_rate_limit"
	AuthForbidden          Code = "auth.forbidden"
	AuthInvalidCredentials Code = "auth.invalid_credentials"
	AuthUnauthorized       Code = "auth.unauthorized"
)

// Envelope is the body of every error response.
type Envelope struct {
	ErrorCode Code   `json:"error_code"`
	Message   string `json:"message"`
	Details   any    `json:"details"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write sends an error envelope.
func Write(w http.ResponseWriter, status int, code Code, message string, details any) {
	WriteJSON(w, status, Envelope{ErrorCode: code, Message: message, Details: details})
}

// Unauthorized sends a 401 with the bearer challenge header.
func Unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	Write(w, http.StatusUnauthorized, AuthUnauthorized, message, nil)
}
