package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/publication-admin/internal/domain"
)

// Claims holds the JWT payload fields.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a shared secret.
// Verification is a local computation; no token state is stored.
type Provider struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewProvider(secret string, expiry time.Duration) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Provider{secret: []byte(secret), expiry: expiry, now: time.Now}, nil
}

// Sign issues a token valid for the configured expiry.
func (p *Provider) Sign(userID int64, email string) (string, error) {
	return p.Issue(userID, email, p.expiry)
}

// Issue issues a token that expires ttl from now. A non-positive ttl yields
// a token that Verify rejects immediately.
func (p *Provider) Issue(userID int64, email string, ttl time.Duration) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("empty user id: %w", domain.ErrInvalidInput)
	}
	if email == "" {
		return "", fmt.Errorf("empty email: %w", domain.ErrInvalidInput)
	}
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(p.now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and identity fields. Every failure wraps
// domain.ErrInvalidToken.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token is expired", domain.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.UserID == 0 || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing identity fields", domain.ErrInvalidToken)
	}
	return claims, nil
}
