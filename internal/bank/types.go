package bank

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies which bank a parent scope holds. Quiz banks carry scored
// questions; feedback banks (quiz- or topic-attached) carry unscored ones.
type Kind string

const (
	KindQuiz          Kind = "quiz"
	KindQuizFeedback  Kind = "quiz_feedback"
	KindTopicFeedback Kind = "topic_feedback"
)

// Valid reports whether k is one of the known bank kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindQuiz, KindQuizFeedback, KindTopicFeedback:
		return true
	}
	return false
}

// Scope is the unit within which sequence numbers are dense and unique:
// one quiz's question bank, or one quiz's/topic's feedback bank.
type Scope struct {
	Kind     Kind
	ParentID uuid.UUID
}

func (s Scope) String() string {
	return string(s.Kind) + ":" + s.ParentID.String()
}

// QuestionType is the closed set of question type tags.
type QuestionType string

const (
	TypeMCQ         QuestionType = "MCQ"
	TypeMSQ         QuestionType = "MSQ"
	TypeTrueFalse   QuestionType = "T/F"
	TypeDescriptive QuestionType = "Descriptive"
)

// Question is one entry of a bank. SequenceNo is 1-based and contiguous
// within the question's scope.
type Question struct {
	ID         uuid.UUID
	Scope      Scope
	SequenceNo int
	Body       string
	Type       QuestionType
	Options    []Option

	CreatedBy  string
	CreatedAt  time.Time
	ModifiedBy *string
	ModifiedAt *time.Time
}

// Option belongs to exactly one question. IsCorrect is meaningful only for
// scored (quiz-bank) questions; feedback options never carry it.
type Option struct {
	ID         uuid.UUID
	QuestionID uuid.UUID
	Text       string
	IsCorrect  bool
}

// OptionInput is a candidate option supplied by the caller.
type OptionInput struct {
	Text      string
	IsCorrect bool
}

// AddQuestionInput carries everything needed to append a question to a scope.
type AddQuestionInput struct {
	Body    string
	Type    string
	Options []OptionInput
	Actor   string
}

// UpdateQuestionInput replaces a question's body and full option set.
// Type must match the stored type; it exists only so the guard can reject
// attempted type changes.
type UpdateQuestionInput struct {
	Body    string
	Type    string
	Options []OptionInput
	Actor   string
}
