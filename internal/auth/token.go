package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime is how long an issued session token stays valid.
const DefaultTokenLifetime = 7 * 24 * time.Hour

// Principal is the authenticated caller carried in a request context.
type Principal struct {
	ID    string
	Email string
}

// Claims is the session token payload.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens. The secret is fixed
// at construction.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// TokenOption customises a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) { t.now = now }
}

// NewTokenIssuer returns an issuer bound to secret. A non-positive lifetime
// selects DefaultTokenLifetime.
func NewTokenIssuer(secret string, lifetime time.Duration, opts ...TokenOption) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token issuer: empty signing secret")
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	t := &TokenIssuer{secret: []byte(secret), lifetime: lifetime, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue mints a token for the given principal.
func (t *TokenIssuer) Issue(principalID, email string) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: principalID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the principal.
// Every failure wraps ErrInvalidToken.
func (t *TokenIssuer) Verify(token string) (Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Principal{}, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return Principal{}, ErrTokenSignature
	default:
		return Principal{}, ErrTokenMalformed
	}

	if claims.UserID == "" || claims.Subject != claims.UserID {
		return Principal{}, ErrTokenMalformed
	}
	return Principal{ID: claims.UserID, Email: claims.Email}, nil
}
