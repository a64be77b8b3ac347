package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	key := testKey(t)

	token, err := IssueAccessToken("uuid-123", "neo", "USER", key)
	require.NoError(t, err)

	claims, err := ParseAndVerifySign(token, &key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, "uuid-123", claims.Sub)
	assert.Equal(t, "neo", claims.Nickname)
	assert.Equal(t, "USER", claims.Role)
	assert.Greater(t, claims.Exp, time.Now().Unix())
}

func TestParseAndVerifySign_WrongKey(t *testing.T) {
	key := testKey(t)
	other := testKey(t)

	token, err := IssueAccessToken("uuid-123", "neo", "USER", key)
	require.NoError(t, err)

	_, err = ParseAndVerifySign(token, &other.PublicKey)
	assert.Error(t, err)
}

func TestParseAndVerifySign_ExpiredToken(t *testing.T) {
	key := testKey(t)
	issueAt := time.Now().Add(-2 * time.Hour).Unix()

	token, err := GenerateSign(&Claims{
		Sub:      "uuid-123",
		Nickname: "neo",
		Role:     "USER",
		Iat:      issueAt,
		Exp:      issueAt + 60,
	}, key)
	require.NoError(t, err)

	_, err = ParseAndVerifySign(token, &key.PublicKey)
	assert.Error(t, err)
}

func TestParseAndVerifySign_Garbage(t *testing.T) {
	key := testKey(t)
	_, err := ParseAndVerifySign("not-a-token", &key.PublicKey)
	assert.Error(t, err)
}
