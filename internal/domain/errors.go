package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrPersistence  = errors.New("persistence failure")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrDocumentNotFound        = fmt.Errorf("document: %w", ErrNotFound)
	ErrClientNotFound          = fmt.Errorf("client: %w", ErrNotFound)
	ErrRecurringConfigNotFound = fmt.Errorf("recurring config: %w", ErrNotFound)
	ErrTemplateNotFound        = fmt.Errorf("template document: %w", ErrNotFound)

	ErrDuplicateDocumentNumber = fmt.Errorf("document number already exists: %w", ErrConflict)
	ErrClientInUse             = fmt.Errorf("client is referenced by documents: %w", ErrConflict)
	ErrRecurringRunClaimed     = fmt.Errorf("recurring run already claimed: %w", ErrConflict)

	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDocumentCancelled  = errors.New("document is cancelled")
	ErrDocumentLocked     = errors.New("document is paid or cancelled and can no longer be edited")
	ErrDocumentNotOverdue = errors.New("document is not overdue")
	ErrClientHasNoEmail   = errors.New("client has no email address")
	ErrNumberSequence     = errors.New("cannot parse document number sequence")
)

// ValidationError reports malformed caller input. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PersistenceError wraps a failure of the record store.
// errors.Is(err, ErrPersistence) holds for every PersistenceError.
type PersistenceError struct {
	// Op is the repository operation, e.g. "documentRepo.Create".
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
