package auth

import (
	"time"

	"taskboard/internal/config"
)

// DefaultJWTConfig returns a standard configuration for JWT authentication
// suitable for testing. This is the single source of truth for JWT test
// config.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 30,
	}
}

// NewTestJWTService creates a JWT service with an injectable clock for
// deterministic expiry testing. Passing nil for timeFunc uses the real
// clock.
func NewTestJWTService(
	secret string,
	lifetime time.Duration,
	timeFunc func() time.Time,
) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
	}
}
