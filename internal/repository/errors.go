package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("record not found")

// StorePhase identifies which step of a store operation failed.
type StorePhase string

const (
	PhaseInsertSubscriber StorePhase = "insert_subscriber"
	PhaseInsertToken      StorePhase = "insert_token"
	PhaseCommit           StorePhase = "commit"
	PhaseQuery            StorePhase = "query"
)

// StoreError wraps a database failure together with the phase it occurred in.
type StoreError struct {
	Phase StorePhase
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Phase, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
