package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedCredentials reports an Authorization header that could not be
// decoded. It is returned before any store lookup takes place.
var ErrMalformedCredentials = errors.New("malformed basic auth credentials")

// Credentials are the username and password extracted from a Basic
// Authorization header.
type Credentials struct {
	Username string
	Password string
}

// ParseBasicAuth decodes an `Authorization: Basic <base64(username:password)>`
// header. The first colon separates the username from the password, so
// passwords may themselves contain colons.
func ParseBasicAuth(header string) (Credentials, error) {
	if header == "" {
		return Credentials{}, fmt.Errorf("%w: missing Authorization header", ErrMalformedCredentials)
	}

	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return Credentials{}, fmt.Errorf("%w: authorization scheme is not Basic", ErrMalformedCredentials)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: invalid base64 payload", ErrMalformedCredentials)
	}

	if !utf8.Valid(decoded) {
		return Credentials{}, fmt.Errorf("%w: decoded credentials are not valid UTF-8", ErrMalformedCredentials)
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return Credentials{}, fmt.Errorf("%w: a password must be provided", ErrMalformedCredentials)
	}

	if username == "" {
		return Credentials{}, fmt.Errorf("%w: a username must be provided", ErrMalformedCredentials)
	}
	if password == "" {
		return Credentials{}, fmt.Errorf("%w: a password must be provided", ErrMalformedCredentials)
	}

	return Credentials{Username: username, Password: password}, nil
}
