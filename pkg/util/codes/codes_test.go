package codes

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err, "token should be valid hex")

	other, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestGenerateSecureTokenInvalidLength(t *testing.T) {
	_, err := GenerateSecureToken(0)
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = GenerateSecureToken(-1)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestGenerateInvitationToken(t *testing.T) {
	token, err := GenerateInvitationToken()
	require.NoError(t, err)
	assert.Len(t, token, InvitationTokenByteLength*2)
}

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.Len(t, token, SessionTokenByteLength*2)
}

func TestGenerateURLSafeToken(t *testing.T) {
	token, err := GenerateURLSafeToken(24)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}
