package model

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"
)

var (
	ErrInvalidEmail = errors.New("email is not a valid email address")
	ErrInvalidName  = errors.New("name is empty, too long or contains forbidden characters")
)

// maxNameGraphemes is the name length limit counted in user-perceived
// characters, not bytes or runes.
const maxNameGraphemes = 256

const forbiddenNameCharacters = `/()"<>\{}`

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewSubscriber holds registration input that passed validation.
type NewSubscriber struct {
	Email string
	Name  string
}

// ParseNewSubscriber validates raw registration input. It performs a purely
// syntactic email check; no MX or deliverability verification.
func ParseNewSubscriber(name, email string) (NewSubscriber, error) {
	if err := validateSubscriberName(name); err != nil {
		return NewSubscriber{}, err
	}

	if validate.Var(email, "required,email") != nil {
		return NewSubscriber{}, ErrInvalidEmail
	}

	return NewSubscriber{Email: email, Name: name}, nil
}

// validateSubscriberName rejects a name if it is empty after trimming
// whitespace, exceeds the grapheme limit, or contains a forbidden character.
func validateSubscriberName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}

	if uniseg.GraphemeClusterCount(name) > maxNameGraphemes {
		return ErrInvalidName
	}

	if strings.ContainsAny(name, forbiddenNameCharacters) {
		return ErrInvalidName
	}

	return nil
}

// ValidateStoredEmail re-checks an email read back from the store. Historical
// registrations can predate stricter validation, so callers skip bad rows
// rather than failing the whole read.
func ValidateStoredEmail(email string) error {
	if validate.Var(email, "required,email") != nil {
		return ErrInvalidEmail
	}

	return nil
}
