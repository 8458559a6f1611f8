// Package services – TokenService
//
// This file implements stateless bearer-token issuance and verification on
// top of JWT (HS256). Tokens carry only the user id as subject plus the
// usual iat/exp claims; authorization data lives in the database, not in the
// token. The auth middleware verifies tokens through the same service so the
// signing configuration has a single home.
package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a presented token is malformed, expired,
// or fails signature verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and verifies signed bearer tokens for authenticated
// users. It is safe for concurrent use.
type TokenService struct {
	// Secret is the HMAC signing key. Must be non-empty.
	Secret []byte
	// TTL is the token lifetime.
	TTL time.Duration
}

// NewTokenService constructs a TokenService with the given secret and TTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must be provided")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{Secret: []byte(secret), TTL: ttl}, nil
}

// Issue creates a signed token whose subject is the given user id.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.Secret)
}

// Verify parses and validates a token string and returns the user id it was
// issued for. Any failure (bad signature, expiry, wrong algorithm, empty
// subject) is reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
