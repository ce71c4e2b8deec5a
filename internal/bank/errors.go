package bank

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the targeted question does not exist. Repeated
	// deletes of the same id keep returning it.
	ErrNotFound = errors.New("question not found")

	// ErrTypeImmutable is returned by UpdateQuestion when the claimed type
	// differs from the stored one.
	ErrTypeImmutable = errors.New("question type cannot be changed")
)

// ValidationError reports malformed or type-illegal input. It is never
// retried and never partially applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a storage gateway fault. The enclosing transaction has
// been rolled back by the time one is returned; callers may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// InvariantError means the stored sequence numbers of a scope are not the
// dense set {1..N}. It indicates corrupted prior state, not a transient
// fault, and always aborts the operation uncommitted.
type InvariantError struct {
	Scope     Scope
	Sequences []int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("sequence invariant broken in scope %s: got %v", e.Scope, e.Sequences)
}
