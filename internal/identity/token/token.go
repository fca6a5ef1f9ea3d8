// Package token implements the self-describing signed credential used to
// authenticate write-path requests. The credential carries the user id and an
// expiry; validation is pure verification with no database lookup.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for missing, malformed, tampered, or expired
// credentials. Callers treat all of these as the same access-denied outcome.
var ErrInvalidToken = errors.New("invalid or expired token")

// Config contains credential signing configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// Authenticator issues and verifies HS256-signed credentials.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator creates a new token authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	ttl := cfg.TokenDuration
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Authenticator{
		secret: []byte(cfg.SecretKey),
		ttl:    ttl,
	}
}

// Generate issues a credential bound to the given user id.
func (a *Authenticator) Generate(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the credential and returns the user id it was issued to.
// Implements httputil.TokenValidator.
func (a *Authenticator) Validate(_ context.Context, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
