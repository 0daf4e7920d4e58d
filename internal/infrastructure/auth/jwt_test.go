package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *SessionTokenService {
	t.Helper()
	svc, err := NewSessionTokenService(config.SessionConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "storefront-test",
		TTL:    time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestNewSessionTokenService(t *testing.T) {
	t.Run("requires a secret", func(t *testing.T) {
		_, err := NewSessionTokenService(config.SessionConfig{})
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("defaults expiration", func(t *testing.T) {
		svc, err := NewSessionTokenService(config.SessionConfig{Secret: "s"})
		require.NoError(t, err)
		assert.Equal(t, 30*24*time.Hour, svc.Expiration())
	})
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestService(t)

	tok, err := svc.Issue()
	require.NoError(t, err)
	_, err = uuid.Parse(tok.SessionID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	sessionID, err := svc.Validate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, tok.SessionID, sessionID)
}

func TestIssueFor_KeepsSession(t *testing.T) {
	svc := newTestService(t)
	id := uuid.NewString()

	tok, err := svc.IssueFor(id)
	require.NoError(t, err)

	got, err := svc.Validate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestValidate_Rejects(t *testing.T) {
	svc := newTestService(t)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewSessionTokenService(config.SessionConfig{Secret: "another-secret-another-secret-xx", Issuer: "storefront-test"})
		require.NoError(t, err)
		tok, err := other.Issue()
		require.NoError(t, err)

		_, err = svc.Validate(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other, err := NewSessionTokenService(config.SessionConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "someone-else"})
		require.NoError(t, err)
		tok, err := other.Issue()
		require.NoError(t, err)

		_, err = svc.Validate(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := svc.Issue()
		require.NoError(t, err)
		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err = svc.Validate(tok.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("subject is not a session id", func(t *testing.T) {
		tok, err := svc.IssueFor("admin")
		require.NoError(t, err)

		_, err = svc.Validate(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: uuid.NewString(), Issuer: "storefront-test"}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
