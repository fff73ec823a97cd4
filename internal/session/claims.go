package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the user payload carried by the access token.
type Claims struct {
	ID    int    `json:"id"`
	Nome  string `json:"nome"`
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Decode reads the claims of a token without verifying its signature,
// which is the server's job.
func Decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// ExpiredAt reports whether the token is past its expiry at now, allowing
// skew. Tokens without exp never expire.
func (c *Claims) ExpiredAt(now time.Time, skew time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Add(skew))
}

// DisplayName is the name shown in the status bar.
func (c *Claims) DisplayName() string {
	if c.Nome != "" {
		return c.Nome
	}
	if c.Email != "" {
		return c.Email
	}
	return c.Subject
}

var (
	// ErrNoSession is returned when no token is stored.
	ErrNoSession = errors.New("no active session")

	// ErrMalformedToken is returned for tokens whose payload cannot be decoded.
	ErrMalformedToken = errors.New("malformed token")

	// ErrExpired is returned when logging in with an expired token.
	ErrExpired = errors.New("token expired")
)
