package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing identity tokens.
type JWTService interface {
	// GenerateToken creates a signed token naming the given username as its
	// subject, valid for the configured lifetime.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, username string) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Every failure mode (malformed, expired, bad signature) is
	// reported as ErrInvalidToken; callers never learn which one occurred.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated content of an identity token.
type Claims struct {
	// Subject is the username the token was issued for.
	Subject string `json:"sub,omitempty"`

	// Standard registered JWT claims
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
