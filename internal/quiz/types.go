package quiz

import (
	"time"

	"github.com/google/uuid"
)

// Quiz is the parent entity a question bank hangs off.
type Quiz struct {
	ID              uuid.UUID
	CourseID        uuid.UUID
	TopicID         uuid.UUID
	Name            string
	Duration        int // minutes
	PassMark        int
	AttemptsAllowed *int // nil means unlimited

	CreatedBy  string
	CreatedAt  time.Time
	ModifiedBy *string
	ModifiedAt *time.Time
}

// CreateInput holds the caller-supplied fields of a new quiz.
type CreateInput struct {
	CourseID        uuid.UUID
	TopicID         uuid.UUID
	Name            string
	Duration        int
	PassMark        int
	AttemptsAllowed *int
	Actor           string
}

// UpdateInput mutates an existing quiz. Course and topic bindings are fixed
// at creation.
type UpdateInput struct {
	Name            string
	Duration        int
	PassMark        int
	AttemptsAllowed *int
	Actor           string
}
