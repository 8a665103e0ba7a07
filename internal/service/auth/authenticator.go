package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"taskboard/internal/domain"
	"taskboard/internal/platform/logger"
	"taskboard/internal/store"
)

// Authenticator combines credential verification and token resolution.
// It is the single identity gate for every mutating or identity-scoped
// request; Resolve is side-effect free and idempotent.
type Authenticator struct {
	users    store.UserStore
	verifier PasswordVerifier
	jwt      JWTService
	logger   *slog.Logger
}

// NewAuthenticator creates a new Authenticator with the given dependencies.
// If log is nil, the default logger is used.
func NewAuthenticator(
	users store.UserStore,
	verifier PasswordVerifier,
	jwt JWTService,
	log *slog.Logger,
) *Authenticator {
	if log == nil {
		log = slog.Default()
	}
	return &Authenticator{
		users:    users,
		verifier: verifier,
		jwt:      jwt,
		logger:   log.With(slog.String("component", "authenticator")),
	}
}

// Authenticate validates a username/password pair against the stored hash.
// An unknown username and a wrong password fail identically with
// ErrInvalidCredentials. Storage faults other than "not found" are
// propagated so they surface as service failures, not rejected logins.
func (a *Authenticator) Authenticate(
	ctx context.Context,
	username, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("user lookup failed during authentication",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := a.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken creates a signed, time-limited identity token for the user.
func (a *Authenticator) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	return a.jwt.GenerateToken(ctx, user.Username)
}

// Resolve validates a token string and resolves its subject to a stored
// user. Any decode, signature, or expiry failure - and a subject that no
// longer exists - yields ErrInvalidToken. Storage faults other than "not
// found" are propagated as failures.
func (a *Authenticator) Resolve(ctx context.Context, tokenString string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	claims, err := a.jwt.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := a.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("token subject no longer resolves to a user",
				slog.String("subject", claims.Subject))
			return nil, ErrInvalidToken
		}
		log.Error("user lookup failed during token resolution",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up token subject: %w", err)
	}

	return user, nil
}
