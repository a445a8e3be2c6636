package auth

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/publication-admin/internal/domain"
	"github.com/publication-admin/internal/pkg/otp"
)

// Template names one of the messages the service sends.
type Template int

const (
	TemplateEmailCode Template = iota
)

var emailCodeBody = template.Must(template.New("email_code").Parse(
	`<h1>Authorization</h1><p>Your one-time-password: <b>{{.Code}}</b></p>`,
))

// Render builds the message for t addressed to recipients. Nothing is sent.
func Render(t Template, data map[string]string, recipients ...string) (domain.EmailMessage, error) {
	switch t {
	case TemplateEmailCode:
		var buf bytes.Buffer
		if err := emailCodeBody.Execute(&buf, data); err != nil {
			return domain.EmailMessage{}, fmt.Errorf("render email code message: %w", err)
		}
		return domain.EmailMessage{
			Subject:    "publication_admin authorization",
			HTMLBody:   buf.String(),
			Recipients: recipients,
		}, nil
	default:
		return domain.EmailMessage{}, fmt.Errorf("unknown email template %d", t)
	}
}

func emailCodeData(code string) map[string]string {
	return map[string]string{"Code": otp.Format(code)}
}
