package apperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports malformed registration or request input.
// The caller can correct the field and resubmit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// SessionClosedError signals an operation against a session that is not in
// the state the operation requires. The caller should start a new session.
type SessionClosedError struct {
	SessionId uuid.UUID
	State     string
}

func (e *SessionClosedError) Error() string {
	return fmt.Sprintf("session %s is closed (state: %s)", e.SessionId, e.State)
}

// GenerationFailedError is the turn-level failure surfaced to the caller when
// a retrieval or generation collaborator fails. The turn is not consumed.
type GenerationFailedError struct {
	Cause error
}

func (e *GenerationFailedError) Error() string {
	return "answer generation failed, please try again"
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Cause
}

// RetrievalUnavailableError indicates the corpus index could not be queried.
type RetrievalUnavailableError struct {
	CorpusId string
	Cause    error
}

func (e *RetrievalUnavailableError) Error() string {
	return fmt.Sprintf("retrieval unavailable for corpus %s", e.CorpusId)
}

func (e *RetrievalUnavailableError) Unwrap() error {
	return e.Cause
}

// GenerationUnavailableError indicates the LLM backend failed or timed out.
type GenerationUnavailableError struct {
	Provider string
	Cause    error
}

func (e *GenerationUnavailableError) Error() string {
	return fmt.Sprintf("generation unavailable (provider: %s)", e.Provider)
}

func (e *GenerationUnavailableError) Unwrap() error {
	return e.Cause
}

// PersistenceError wraps a failed database operation. The request must not
// report success if the underlying transaction did not commit.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s", e.Op)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// Helpers for the controller layer.

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsSessionClosed(err error) bool {
	var target *SessionClosedError
	return errors.As(err, &target)
}

func IsGenerationFailed(err error) bool {
	var target *GenerationFailedError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
