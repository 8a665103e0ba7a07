package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/internal/store"
)

// fakeUserStore is an in-memory store.UserStore for authenticator tests.
type fakeUserStore struct {
	users map[string]*domain.User
	err   error // returned from every call when set
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.err != nil {
		return s.err
	}
	if _, exists := s.users[user.Username]; exists {
		return store.ErrUsernameExists
	}
	s.users[user.Username] = user
	return nil
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func testUser(t *testing.T, username, password string) *domain.User {
	t.Helper()
	hasher := NewBcryptVerifier()
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	return &domain.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: hash,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	alice := testUser(t, "alice", "correct horse battery")
	users := newFakeUserStore(alice)
	jwtSvc := NewTestJWTService(DefaultJWTConfig().JWTSecret, 30*time.Minute, nil)
	authenticator := NewAuthenticator(users, NewBcryptVerifier(), jwtSvc, nil)

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		user, err := authenticator.Authenticate(context.Background(), "alice", "correct horse battery")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		t.Parallel()
		_, errWrongPassword := authenticator.Authenticate(context.Background(), "alice", "nope")
		_, errUnknownUser := authenticator.Authenticate(context.Background(), "mallory", "nope")

		require.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
		require.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
		// No username-existence oracle: the errors must be indistinguishable
		assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
	})

	t.Run("storage fault is not invalid credentials", func(t *testing.T) {
		t.Parallel()
		broken := newFakeUserStore()
		broken.err = errors.New("connection refused")
		a := NewAuthenticator(broken, NewBcryptVerifier(), jwtSvc, nil)

		_, err := a.Authenticate(context.Background(), "alice", "pw")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	secret := DefaultJWTConfig().JWTSecret
	alice := testUser(t, "alice", "correct horse battery")

	issueAt := func(ts time.Time, username string) string {
		svc := NewTestJWTService(secret, 30*time.Minute, func() time.Time { return ts })
		token, err := svc.GenerateToken(context.Background(), username)
		require.NoError(t, err)
		return token
	}

	newAuthenticatorAt := func(users store.UserStore, ts time.Time) *Authenticator {
		svc := NewTestJWTService(secret, 30*time.Minute, func() time.Time { return ts })
		return NewAuthenticator(users, NewBcryptVerifier(), svc, nil)
	}

	t.Run("valid token resolves to user", func(t *testing.T) {
		t.Parallel()
		a := newAuthenticatorAt(newFakeUserStore(alice), fixedTime)

		user, err := a.Resolve(context.Background(), issueAt(fixedTime, "alice"))
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		t.Parallel()
		a := newAuthenticatorAt(newFakeUserStore(alice), fixedTime.Add(31*time.Minute))

		_, err := a.Resolve(context.Background(), issueAt(fixedTime, "alice"))
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		t.Parallel()
		a := newAuthenticatorAt(newFakeUserStore(), fixedTime)

		_, err := a.Resolve(context.Background(), issueAt(fixedTime, "ghost"))
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		t.Parallel()
		a := newAuthenticatorAt(newFakeUserStore(alice), fixedTime)

		_, err := a.Resolve(context.Background(), "garbage")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("storage fault propagates as failure", func(t *testing.T) {
		t.Parallel()
		broken := newFakeUserStore()
		broken.err = errors.New("connection refused")
		a := newAuthenticatorAt(broken, fixedTime)

		_, err := a.Resolve(context.Background(), issueAt(fixedTime, "alice"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidToken)
	})
}
