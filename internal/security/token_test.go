package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSubscriptionTokenShape(t *testing.T) {
	token, err := GenerateSubscriptionToken()

	require.NoError(t, err)
	assert.Len(t, token, 25)

	for _, r := range token {
		assert.True(t, strings.ContainsRune(subscriptionTokenAlphabet, r), "unexpected character %q", r)
	}
}

func TestGenerateSubscriptionTokenDoesNotRepeat(t *testing.T) {
	seen := make(map[string]struct{}, 1000)

	for range 1000 {
		token, err := GenerateSubscriptionToken()
		require.NoError(t, err)

		_, dup := seen[token]
		require.False(t, dup, "token %q generated twice", token)
		seen[token] = struct{}{}
	}
}
