package jwtinfra

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/publication-admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider("test-secret", 7*24*time.Hour)
	require.NoError(t, err)
	return p
}

func TestNewProvider_EmptySecret(t *testing.T) {
	_, err := NewProvider("", time.Hour)
	assert.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t)
	for _, tc := range []struct {
		id    int64
		email string
	}{
		{1, "a@example.com"},
		{42, "someone.else@example.org"},
		{1 << 40, "big@example.net"},
	} {
		signed, err := p.Sign(tc.id, tc.email)
		require.NoError(t, err)

		claims, err := p.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, tc.id, claims.UserID)
		assert.Equal(t, tc.email, claims.Email)
	}
}

func TestIssue_DefaultExpiry(t *testing.T) {
	p := newTestProvider(t)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	signed, err := p.Sign(7, "a@example.com")
	require.NoError(t, err)
	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(7*24*time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestIssue_NonPositiveTTL_RejectedImmediately(t *testing.T) {
	p := newTestProvider(t)
	for _, ttl := range []time.Duration{0, -time.Second, -time.Hour} {
		signed, err := p.Issue(1, "a@example.com", ttl)
		require.NoError(t, err)

		_, err = p.Verify(signed)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "ttl %s", ttl)
	}
}

func TestIssue_InvalidInput(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Issue(0, "a@example.com", time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = p.Issue(1, "", time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVerify_WrongSecret(t *testing.T) {
	signed, err := newTestProvider(t).Sign(1, "a@example.com")
	require.NoError(t, err)

	other, err := NewProvider("another-secret", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_Tampered(t *testing.T) {
	p := newTestProvider(t)
	signed, err := p.Sign(1, "a@example.com")
	require.NoError(t, err)

	_, err = p.Verify(signed[:len(signed)-2] + "xx")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_MissingFields(t *testing.T) {
	p := newTestProvider(t)
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_MissingExpiry(t *testing.T) {
	p := newTestProvider(t)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Email: "a@example.com"}).SignedString(p.secret)
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	p := newTestProvider(t)
	claims := Claims{
		UserID:           1,
		Email:            "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
