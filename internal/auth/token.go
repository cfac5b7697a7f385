package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, or passed expiry. Callers get no finer detail.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer creates and validates signed, expiring session tokens.
// The signing key is a process-wide static secret; rotating it
// invalidates all outstanding tokens.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenIssuer creates an HS256 TokenIssuer with the given secret and
// default TTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		method: jwt.SigningMethodHS256,
		ttl:    ttl,
	}
}

// NewTokenIssuerWithAlgorithm creates a TokenIssuer using the named HMAC
// signing algorithm (HS256, HS384 or HS512).
func NewTokenIssuerWithAlgorithm(secret, algorithm string, ttl time.Duration) (*TokenIssuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// TTL returns the configured default token lifetime.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue produces a signed token with the given subject and an absolute
// expiry of now + TTL.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(i.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature integrity and expiry, and returns the token's
// subject along with its remaining lifetime. Fails with ErrInvalidToken
// on any verification error.
func (i *TokenIssuer) Verify(tokenString string) (string, time.Duration, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{i.method.Alg()}),
	)
	if err != nil || !token.Valid {
		return "", 0, ErrInvalidToken
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return "", 0, ErrInvalidToken
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return "", 0, ErrInvalidToken
	}

	return claims.Subject, remaining, nil
}
