package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidToken   = errors.New("invalid token")
	ErrAuthentication = errors.New("authentication failed")
	ErrRateLimited    = errors.New("rate limited")
	ErrValidation     = errors.New("validation failed")

	ErrAlreadyTriggered   = errors.New("avatar initialization was already triggered")
	ErrNotInitialized     = errors.New("avatar is not initialized")
	ErrNotImplemented     = errors.New("not implemented")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUpload             = errors.New("upload failed")
)

// Error pairs a sentinel with the message a client should see.
type Error struct {
	Kind    error
	Message string
}

// NewError returns an error matching kind with a client-facing message.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Reasons an email code submission is rejected, in check order.
const (
	ReasonNoCode          = "no code"
	ReasonTooManyAttempts = "too many attempts"
	ReasonExpired         = "expired"
	ReasonInvalidCode     = "invalid code"
)

// AuthenticationError is returned when an email code cannot be accepted.
// It matches ErrAuthentication.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string { return e.Reason }

func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }
