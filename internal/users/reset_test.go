package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	token, hash, err := NewResetToken()
	require.NoError(t, err)

	// 20 random bytes, hex encoded
	assert.Len(t, token, 40)
	assert.NotEqual(t, token, hash)
	assert.Equal(t, HashResetToken(token), hash)

	token2, hash2, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
	assert.NotEqual(t, hash, hash2)
}

func TestHashResetTokenDeterministic(t *testing.T) {
	a := HashResetToken("abc123")
	b := HashResetToken("abc123")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // sha256 hex
	assert.NotEqual(t, a, HashResetToken("abc124"))
}
