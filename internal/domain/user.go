package domain

import "strings"

// User is created the first time an email address passes code verification.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// NormalizeEmail is the canonical form used as the key for users and codes.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
