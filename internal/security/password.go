package security

import "github.com/matthewhartstonge/argon2"

// HashPassword derives an argon2id encoded verifier for the given password.
func HashPassword(password string) (string, error) {
	cfg := argon2.DefaultConfig()

	encoded, err := cfg.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword checks a password candidate against an encoded verifier.
func VerifyPassword(password, encoded string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encoded))
}
