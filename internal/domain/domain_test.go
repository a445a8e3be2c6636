package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM \n"))
}

func TestAuthenticationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("authenticate: %w", &AuthenticationError{Reason: ReasonExpired})
	assert.True(t, errors.Is(err, ErrAuthentication))
	assert.False(t, errors.Is(err, ErrUnauthorized))

	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, ReasonExpired, authErr.Reason)
}

func TestError_UnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("create avatar: %w", NewError(ErrNotImplemented, "Multiple avatars not supported at the moment"))
	assert.True(t, errors.Is(err, ErrNotImplemented))

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "Multiple avatars not supported at the moment", de.Message)
}

func TestEmailCode_Expired(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &EmailCode{CreatedAt: created}

	assert.False(t, c.Expired(created.Add(EmailCodeTTL)), "exactly at the TTL boundary the code is still valid")
	assert.True(t, c.Expired(created.Add(EmailCodeTTL+time.Second)))
}

func TestAvatar_AssignLoraName(t *testing.T) {
	a := &Avatar{}
	require.NoError(t, a.AssignLoraName())
	first := a.LoraName

	assert.Len(t, first, LoraNameLength)
	for _, r := range first {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'), "unexpected rune %q", r)
	}

	require.NoError(t, a.AssignLoraName())
	assert.NotEqual(t, first, a.LoraName)
}
