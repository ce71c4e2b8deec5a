package bank

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the storage gateway the service runs against. Implementations
// must return ErrNotFound for absent questions and wrap every other fault
// in a StorageError.
type Store interface {
	// InScope runs fn inside one transaction with all other writers of the
	// same scope excluded for its duration. A non-nil error from fn, or a
	// failed commit, rolls the transaction back entirely.
	InScope(ctx context.Context, scope Scope, fn func(ctx context.Context, tx Tx) error) error

	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
	ListQuestions(ctx context.Context, scope Scope) ([]Question, error)
}

// Tx exposes the scoped write primitives available inside InScope.
type Tx interface {
	CountQuestions(ctx context.Context, scope Scope) (int, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
	InsertQuestion(ctx context.Context, q *Question) error
	InsertOptions(ctx context.Context, options []Option) error
	UpdateQuestionBody(ctx context.Context, id uuid.UUID, body, modifiedBy string, modifiedAt time.Time) error
	DeleteOptionsByQuestion(ctx context.Context, id uuid.UUID) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error

	// ShiftSequencesAfter decrements the sequence number of every question
	// in the scope whose number exceeds after, preserving relative order.
	ShiftSequencesAfter(ctx context.Context, scope Scope, after int) error

	// SequenceNumbers returns the scope's live sequence numbers in
	// ascending order.
	SequenceNumbers(ctx context.Context, scope Scope) ([]int, error)
}
