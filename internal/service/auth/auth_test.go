package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/scheduleease/pkg/keycloak"
)

type fakeIssuer struct {
	password string
	calls    int
	err      error
}

func (f *fakeIssuer) PasswordToken(_ context.Context, _, password string) (*keycloak.Token, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if password != f.password {
		return nil, &keycloak.Error{Kind: keycloak.KindUnauthorized, Status: 401, Message: "Invalid user credentials"}
	}
	return &keycloak.Token{AccessToken: "at", TokenType: "Bearer"}, nil
}

type memAttempts struct {
	counts map[string]int
	ttls   map[string]time.Duration
}

func newMemAttempts() *memAttempts {
	return &memAttempts{counts: map[string]int{}, ttls: map[string]time.Duration{}}
}

func (m *memAttempts) Attempts(_ context.Context, key string) (int, error) { return m.counts[key], nil }
func (m *memAttempts) Fail(_ context.Context, key string, ttl time.Duration) error {
	m.counts[key]++
	m.ttls[key] = ttl
	return nil
}
func (m *memAttempts) Reset(_ context.Context, key string) error {
	delete(m.counts, key)
	return nil
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)) }

func TestTokenValidation(t *testing.T) {
	s := New(&fakeIssuer{password: "pw"}, nil, quietLogger())

	_, err := s.Token(context.Background(), TokenRequest{Username: " ", Password: "pw"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = s.Token(context.Background(), TokenRequest{Username: "alice"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestTokenSuccessResetsAttempts(t *testing.T) {
	store := newMemAttempts()
	store.counts[redisKeyLoginAttempts("alice")] = 2
	s := New(&fakeIssuer{password: "pw"}, store, quietLogger())

	tok, err := s.Token(context.Background(), TokenRequest{Username: "Alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Empty(t, store.counts)
}

func TestTokenLockout(t *testing.T) {
	store := newMemAttempts()
	idp := &fakeIssuer{password: "pw"}
	s := New(idp, store, quietLogger())
	ctx := context.Background()

	for i := 0; i < maxLoginAttempts; i++ {
		_, err := s.Token(ctx, TokenRequest{Username: "alice", Password: "nope"})
		require.ErrorIs(t, err, keycloak.ErrUnauthorized)
	}
	assert.Equal(t, accountLockMins*time.Minute, store.ttls[redisKeyLoginAttempts("alice")])

	_, err := s.Token(ctx, TokenRequest{Username: "alice", Password: "pw"})
	assert.ErrorIs(t, err, ErrAccountLocked)
	assert.Equal(t, maxLoginAttempts, idp.calls, "locked accounts never reach the identity provider")
}

func TestTokenTimeoutDoesNotCount(t *testing.T) {
	store := newMemAttempts()
	s := New(&fakeIssuer{err: &keycloak.Error{Kind: keycloak.KindTimeout, Status: 504, Message: "Connection timed out: x"}}, store, quietLogger())

	_, err := s.Token(context.Background(), TokenRequest{Username: "alice", Password: "pw"})
	assert.ErrorIs(t, err, keycloak.ErrTimeout)
	assert.Empty(t, store.counts)

	var kcErr *keycloak.Error
	require.True(t, errors.As(err, &kcErr))
	assert.Equal(t, 504, kcErr.HTTPStatus())
}
