package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(&Payload{Username: "alice"}, testSecret, UserIdentityExpiration)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", payload.Username)
	assert.Equal(t, TokenIssuer, payload.Issuer)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(&Payload{Username: "alice"}, testSecret, UserIdentityExpiration)
	require.NoError(t, err)

	_, err = ParseToken(token, "another_secret")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(&Payload{Username: "alice"}, testSecret, -UserIdentityExpiration)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	assert.Error(t, err)
}
