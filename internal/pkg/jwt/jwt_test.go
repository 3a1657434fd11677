package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("secret")
	token, err := GenerateToken("user@example.com", "2fa", secret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, "2fa", claims.Purpose)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("user@example.com", "2fa", []byte("a"), time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token, []byte("b"))
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("user@example.com", "2fa", []byte("a"), -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token, []byte("a"))
	require.Error(t, err)
}
