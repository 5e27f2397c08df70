// Package resettoken issues and verifies signed, time-limited password reset tokens.
package resettoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long a reset link stays usable.
const DefaultTTL = time.Hour

const purposeReset = "password_reset"

var (
	ErrInvalidToken = errors.New("reset token is invalid")
	ErrExpiredToken = errors.New("reset token has expired")
	ErrEmptySecret  = errors.New("reset token secret cannot be empty")
)

type claims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 reset tokens bound to an email address.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a Signer. A non-positive ttl falls back to DefaultTTL.
// PRE: secret is non-empty
// POST: Returns a ready-to-use signer or ErrEmptySecret
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for email that expires after the signer's TTL.
// PRE: email is non-empty
func (s *Signer) Issue(email string) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:   email,
		Purpose: purposeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and purpose of raw and returns the email it was issued for.
// POST: Returns ErrExpiredToken for stale tokens, ErrInvalidToken for anything else that fails
func (s *Signer) Verify(raw string) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", ErrExpiredToken
	}
	if err != nil {
		return "", ErrInvalidToken
	}
	if c.Purpose != purposeReset || c.Email == "" {
		return "", ErrInvalidToken
	}
	return c.Email, nil
}
