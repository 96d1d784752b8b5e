package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords. The two cases are never distinguished externally.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenNotFound is returned for confirmation tokens that are unknown,
	// expired or invalidated. It maps to an unauthorized response.
	ErrTokenNotFound = errors.New("subscription token not found")
)

// DeliveryError reports a failed or timed-out email dispatch.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver email to %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
