package domain

import "time"

const (
	EmailCodeAttempts     = 3
	EmailCodeTTL          = 5 * time.Minute
	EmailCodeSendThrottle = 30 * time.Second
)

// EmailCode is the single outstanding one-time code for an email address.
// Issuing a new code replaces the previous one.
type EmailCode struct {
	Email     string    `json:"email" dynamodbav:"email"`
	Code      string    `json:"-" dynamodbav:"code"`
	Attempts  int       `json:"attempts" dynamodbav:"attempts"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Expired reports whether the code has outlived EmailCodeTTL at now.
func (c *EmailCode) Expired(now time.Time) bool {
	return c.CreatedAt.Add(EmailCodeTTL).Before(now)
}

// EmailMessage is a rendered message ready for delivery.
type EmailMessage struct {
	Subject    string
	HTMLBody   string
	Recipients []string
}

type GetCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type AuthenticateRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}
