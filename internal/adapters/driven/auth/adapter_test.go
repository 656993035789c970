package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAdapter_GenerateAndParseToken(t *testing.T) {
	a := NewAdapter("test-secret")

	now := time.Now()
	token, err := a.GenerateToken("user-1", now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := a.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
}

func TestAdapter_ParseToken_WrongSecret(t *testing.T) {
	a := NewAdapter("secret-a")
	b := NewAdapter("secret-b")

	now := time.Now()
	token, err := a.GenerateToken("user-1", now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = b.ParseToken(token)
	require.Error(t, err)
}

func TestAdapter_ParseToken_Expired(t *testing.T) {
	a := NewAdapter("test-secret")

	now := time.Now()
	token, err := a.GenerateToken("user-1", now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)

	_, err = a.ParseToken(token)
	require.Error(t, err)
}
