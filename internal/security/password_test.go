package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2"), "verifier must be an encoded argon2 hash")
	assert.NotContains(t, encoded, "hunter2")

	ok, err := VerifyPassword("hunter2", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("hunter2")
	require.NoError(t, err)

	second, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
