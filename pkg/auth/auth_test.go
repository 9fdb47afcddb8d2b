package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	a := NewAuthenticator("test-secret-please-rotate", time.Hour)

	token, err := a.IssueToken("user-1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := a.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	a := NewAuthenticator("secret-one", time.Hour)
	b := NewAuthenticator("secret-two", time.Hour)

	token, err := a.IssueToken("user-1", "alice")
	require.NoError(t, err)

	_, err = b.VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenExpiryRejected(t *testing.T) {
	a := NewAuthenticator("test-secret", -time.Minute)

	token, err := a.IssueToken("user-1", "alice")
	require.NoError(t, err)

	_, err = a.VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	a := NewAuthenticator("test-secret", time.Hour)
	_, err := a.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}
