package auth

import (
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"tasker_server/pkg/logger"
	"tasker_server/pkg/rest"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger :
// Swallows every trace so that the tests stay silent.
type nopLogger struct{}

func (l nopLogger) Trace(level logger.Severity, module string, message string) {}

// newTestManager :
// Builds a manager on a fixed signing key and a controllable
// clock starting at the provided instant.
func newTestManager(t *testing.T, start time.Time) (*TokenManager, *time.Time) {
	t.Helper()

	viper.Reset()
	viper.Set("Token.Key", base64.StdEncoding.EncodeToString([]byte("test-signing-key")))
	viper.Set("Token.Expiry", 3600)

	clock := start

	m := NewTokenManager(nopLogger{})
	m.now = func() time.Time { return clock }

	return m, &clock
}

func TestIssueAndAuthenticateRoundTrip(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m, clock := newTestManager(t, start)

	token, err := m.IssueToken("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Move past the not-before buffer.
	*clock = start.Add(3 * time.Second)

	identity, err := m.Authenticate(token)
	require.NoError(t, err)

	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, start.Unix(), identity.IssuedAt.Unix())
	assert.Equal(t, start.Add(2*time.Second).Unix(), identity.NotBefore.Unix())
	assert.Equal(t, start.Add(3600*time.Second).Unix(), identity.ExpiresAt.Unix())
}

func TestAuthenticateRejectsTokenBeforeNotBefore(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m, clock := newTestManager(t, start)

	token, err := m.IssueToken("alice")
	require.NoError(t, err)

	// One second after issuance the token is not usable yet.
	*clock = start.Add(1 * time.Second)

	_, err = m.Authenticate(token)
	require.Error(t, err)

	rerr, ok := err.(rest.Error)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rerr.Status)
	assert.Equal(t, rest.InvalidToken, rerr.Key)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m, clock := newTestManager(t, start)

	token, err := m.IssueToken("alice")
	require.NoError(t, err)

	*clock = start.Add(3601 * time.Second)

	_, err = m.Authenticate(token)
	require.Error(t, err)

	rerr, ok := err.(rest.Error)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rerr.Status)
	assert.Equal(t, rest.InvalidToken, rerr.Key)
}

func TestAuthenticateRejectsEmptyCredential(t *testing.T) {
	m, _ := newTestManager(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	_, err := m.Authenticate("")
	require.Error(t, err)

	rerr, ok := err.(rest.Error)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rerr.Status)
	assert.Equal(t, rest.InvalidToken, rerr.Key)
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m, clock := newTestManager(t, start)

	token, err := m.IssueToken("alice")
	require.NoError(t, err)

	*clock = start.Add(3 * time.Second)

	_, err = m.Authenticate(token + "a")
	require.Error(t, err)
}

func TestAuthenticateRejectsTokenSignedWithAnotherKey(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m, _ := newTestManager(t, start)

	token, err := m.IssueToken("alice")
	require.NoError(t, err)

	other, clock := newTestManager(t, start)
	other.key = []byte("another-signing-key")
	*clock = start.Add(3 * time.Second)

	_, err = other.Authenticate(token)
	require.Error(t, err)
}

func TestNewTokenManagerPanicsOnMissingKey(t *testing.T) {
	viper.Reset()

	assert.Panics(t, func() {
		NewTokenManager(nopLogger{})
	})
}

func TestNewTokenManagerPanicsOnUndecodableKey(t *testing.T) {
	viper.Reset()
	viper.Set("Token.Key", "!not-base64!")

	assert.Panics(t, func() {
		NewTokenManager(nopLogger{})
	})
}
