package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnsphere/question-bank/internal/bank"
)

var (
	ErrQuestionNotFound = errors.New("feedback question not found")
	ErrInvalidResponse  = errors.New("invalid feedback response")
)

// Response is one learner's answer to a feedback question.
type Response struct {
	ID         uuid.UUID
	QuestionID uuid.UUID
	LearnerID  uuid.UUID
	Text       *string
	OptionID   *uuid.UUID
	CreatedAt  time.Time
}

// SubmitInput carries a learner response. Exactly one of Text / OptionID is
// expected, depending on the question type.
type SubmitInput struct {
	QuestionID uuid.UUID
	LearnerID  uuid.UUID
	Text       string
	OptionID   *uuid.UUID
}

// Store persists responses.
type Store interface {
	Insert(ctx context.Context, resp *Response) error
}

// QuestionReader resolves the feedback question being answered; satisfied
// by the bank service.
type QuestionReader interface {
	GetQuestion(ctx context.Context, id uuid.UUID) (*bank.Question, error)
}

// Service records learner responses to feedback questions.
type Service struct {
	store     Store
	questions QuestionReader
	now       func() time.Time
	logger    zerolog.Logger
}

func NewService(store Store, questions QuestionReader, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		questions: questions,
		now:       time.Now,
		logger:    logger.With().Str("component", "feedback_service").Logger(),
	}
}

// Submit validates the response against the question's type and stores it.
// MCQ responses must name an option of that question; Descriptive responses
// must carry text.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (uuid.UUID, error) {
	q, err := s.questions.GetQuestion(ctx, in.QuestionID)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			return uuid.Nil, ErrQuestionNotFound
		}
		return uuid.Nil, err
	}
	if q.Scope.Kind != bank.KindQuizFeedback && q.Scope.Kind != bank.KindTopicFeedback {
		return uuid.Nil, fmt.Errorf("%w: question is not a feedback question", ErrInvalidResponse)
	}

	resp := Response{
		ID:         uuid.New(),
		QuestionID: in.QuestionID,
		LearnerID:  in.LearnerID,
		CreatedAt:  s.now().UTC(),
	}

	switch q.Type {
	case bank.TypeMCQ:
		if in.OptionID == nil {
			return uuid.Nil, fmt.Errorf("%w: option id is required for MCQ feedback", ErrInvalidResponse)
		}
		if !ownsOption(q, *in.OptionID) {
			return uuid.Nil, fmt.Errorf("%w: option does not belong to the question", ErrInvalidResponse)
		}
		resp.OptionID = in.OptionID
	case bank.TypeDescriptive:
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return uuid.Nil, fmt.Errorf("%w: text is required for descriptive feedback", ErrInvalidResponse)
		}
		if in.OptionID != nil {
			return uuid.Nil, fmt.Errorf("%w: descriptive feedback takes no option", ErrInvalidResponse)
		}
		resp.Text = &text
	default:
		return uuid.Nil, fmt.Errorf("%w: unsupported question type %s", ErrInvalidResponse, q.Type)
	}

	if err := s.store.Insert(ctx, &resp); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info().
		Str("question_id", in.QuestionID.String()).
		Str("learner_id", in.LearnerID.String()).
		Msg("feedback response recorded")
	return resp.ID, nil
}

func ownsOption(q *bank.Question, optionID uuid.UUID) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}
