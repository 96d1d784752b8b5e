package security

import (
	"crypto/rand"
	"fmt"
)

const (
	subscriptionTokenLength   = 25
	subscriptionTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateSubscriptionToken returns a 25-character token drawn uniformly from
// [A-Za-z0-9] using a cryptographically strong source.
func GenerateSubscriptionToken() (string, error) {
	token := make([]byte, subscriptionTokenLength)

	// Read more bytes than needed and reject values outside the largest
	// multiple of the alphabet size to keep the distribution uniform.
	const limit = 248 // largest multiple of 62 below 256

	buf := make([]byte, 64)
	filled := 0
	for filled < subscriptionTokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}

		for _, b := range buf {
			if b >= limit {
				continue
			}
			token[filled] = subscriptionTokenAlphabet[int(b)%len(subscriptionTokenAlphabet)]
			filled++
			if filled == subscriptionTokenLength {
				break
			}
		}
	}

	return string(token), nil
}
