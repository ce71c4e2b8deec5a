package feedback

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/learnsphere/question-bank/internal/bank"
)

type stubResponseStore struct {
	responses []Response
}

func (s *stubResponseStore) Insert(_ context.Context, resp *Response) error {
	s.responses = append(s.responses, *resp)
	return nil
}

type stubQuestionReader struct {
	questions map[uuid.UUID]*bank.Question
}

func (s *stubQuestionReader) GetQuestion(_ context.Context, id uuid.UUID) (*bank.Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return nil, bank.ErrNotFound
	}
	return q, nil
}

func feedbackMCQ(kind bank.Kind) *bank.Question {
	id := uuid.New()
	return &bank.Question{
		ID:    id,
		Scope: bank.Scope{Kind: kind, ParentID: uuid.New()},
		Type:  bank.TypeMCQ,
		Body:  "How clear was this topic?",
		Options: []bank.Option{
			{ID: uuid.New(), QuestionID: id, Text: "Very clear"},
			{ID: uuid.New(), QuestionID: id, Text: "Confusing"},
		},
	}
}

func newFeedbackService(questions ...*bank.Question) (*Service, *stubResponseStore) {
	reader := &stubQuestionReader{questions: map[uuid.UUID]*bank.Question{}}
	for _, q := range questions {
		reader.questions[q.ID] = q
	}
	store := &stubResponseStore{}
	return NewService(store, reader, zerolog.New(io.Discard)), store
}

func TestSubmitMCQResponse(t *testing.T) {
	q := feedbackMCQ(bank.KindTopicFeedback)
	svc, store := newFeedbackService(q)

	id, err := svc.Submit(context.Background(), SubmitInput{
		QuestionID: q.ID,
		LearnerID:  uuid.New(),
		OptionID:   &q.Options[0].ID,
	})
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Len(t, store.responses, 1)
	assert.Equal(t, q.Options[0].ID, *store.responses[0].OptionID)
	assert.Nil(t, store.responses[0].Text)
}

func TestSubmitMCQRequiresOwnedOption(t *testing.T) {
	q := feedbackMCQ(bank.KindQuizFeedback)
	svc, store := newFeedbackService(q)

	_, err := svc.Submit(context.Background(), SubmitInput{
		QuestionID: q.ID,
		LearnerID:  uuid.New(),
	})
	assert.ErrorIs(t, err, ErrInvalidResponse)

	foreign := uuid.New()
	_, err = svc.Submit(context.Background(), SubmitInput{
		QuestionID: q.ID,
		LearnerID:  uuid.New(),
		OptionID:   &foreign,
	})
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Empty(t, store.responses)
}

func TestSubmitDescriptiveResponse(t *testing.T) {
	q := &bank.Question{
		ID:    uuid.New(),
		Scope: bank.Scope{Kind: bank.KindQuizFeedback, ParentID: uuid.New()},
		Type:  bank.TypeDescriptive,
		Body:  "Anything else?",
	}
	svc, store := newFeedbackService(q)

	_, err := svc.Submit(context.Background(), SubmitInput{
		QuestionID: q.ID,
		LearnerID:  uuid.New(),
		Text:       "  Loved the pacing.  ",
	})
	assert.NoError(t, err)
	assert.Len(t, store.responses, 1)
	assert.Equal(t, "Loved the pacing.", *store.responses[0].Text)

	_, err = svc.Submit(context.Background(), SubmitInput{
		QuestionID: q.ID,
		LearnerID:  uuid.New(),
		Text:       "   ",
	})
	assert.ErrorIs(t, err, ErrInvalidResponse)

	opt := uuid.New()
	_, err = svc.Submit(context.Background(), SubmitInput{
		QuestionID: q.ID,
		LearnerID:  uuid.New(),
		Text:       "text",
		OptionID:   &opt,
	})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSubmitRejectsNonFeedbackQuestions(t *testing.T) {
	q := feedbackMCQ(bank.KindTopicFeedback)
	q.Scope.Kind = bank.KindQuiz
	svc, _ := newFeedbackService(q)

	_, err := svc.Submit(context.Background(), SubmitInput{
		QuestionID: q.ID,
		LearnerID:  uuid.New(),
		OptionID:   &q.Options[0].ID,
	})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSubmitUnknownQuestion(t *testing.T) {
	svc, _ := newFeedbackService()

	_, err := svc.Submit(context.Background(), SubmitInput{
		QuestionID: uuid.New(),
		LearnerID:  uuid.New(),
	})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}
