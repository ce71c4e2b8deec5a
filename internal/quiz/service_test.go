package quiz

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubQuizStore struct {
	quizzes map[uuid.UUID]*Quiz
}

func newStubQuizStore() *stubQuizStore {
	return &stubQuizStore{quizzes: map[uuid.UUID]*Quiz{}}
}

func (s *stubQuizStore) Insert(_ context.Context, q *Quiz) error {
	cp := *q
	s.quizzes[q.ID] = &cp
	return nil
}

func (s *stubQuizStore) Update(_ context.Context, q *Quiz) error {
	if _, ok := s.quizzes[q.ID]; !ok {
		return ErrNotFound
	}
	cp := *q
	s.quizzes[q.ID] = &cp
	return nil
}

func (s *stubQuizStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.quizzes[id]; !ok {
		return ErrNotFound
	}
	delete(s.quizzes, id)
	return nil
}

func (s *stubQuizStore) Get(_ context.Context, id uuid.UUID) (*Quiz, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (s *stubQuizStore) List(_ context.Context) ([]Quiz, error) {
	var out []Quiz
	for _, q := range s.quizzes {
		out = append(out, *q)
	}
	return out, nil
}

func validCreate() CreateInput {
	return CreateInput{
		CourseID: uuid.New(),
		TopicID:  uuid.New(),
		Name:     "Go basics",
		Duration: 30,
		PassMark: 60,
		Actor:    "author",
	}
}

func TestCreateQuiz(t *testing.T) {
	store := newStubQuizStore()
	svc := NewService(store, zerolog.New(io.Discard))

	id, err := svc.Create(context.Background(), validCreate())
	assert.NoError(t, err)

	q, err := svc.Get(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "Go basics", q.Name)
	assert.Equal(t, "author", q.CreatedBy)
	assert.Nil(t, q.AttemptsAllowed)
}

func TestCreateQuizValidation(t *testing.T) {
	store := newStubQuizStore()
	svc := NewService(store, zerolog.New(io.Discard))

	in := validCreate()
	in.Name = "   "
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = validCreate()
	in.Duration = 0
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = validCreate()
	in.PassMark = -5
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	zero := 0
	in = validCreate()
	in.AttemptsAllowed = &zero
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, store.quizzes)
}

func TestUpdateQuiz(t *testing.T) {
	store := newStubQuizStore()
	svc := NewService(store, zerolog.New(io.Discard))

	id, err := svc.Create(context.Background(), validCreate())
	assert.NoError(t, err)

	three := 3
	err = svc.Update(context.Background(), id, UpdateInput{
		Name:            "Go basics v2",
		Duration:        45,
		PassMark:        70,
		AttemptsAllowed: &three,
		Actor:           "editor",
	})
	assert.NoError(t, err)

	q, err := svc.Get(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "Go basics v2", q.Name)
	assert.Equal(t, 45, q.Duration)
	assert.NotNil(t, q.AttemptsAllowed)
	assert.Equal(t, 3, *q.AttemptsAllowed)
	assert.NotNil(t, q.ModifiedBy)
	assert.Equal(t, "editor", *q.ModifiedBy)
}

func TestUpdateUnknownQuiz(t *testing.T) {
	svc := NewService(newStubQuizStore(), zerolog.New(io.Discard))

	err := svc.Update(context.Background(), uuid.New(), UpdateInput{Name: "x", Duration: 1, PassMark: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteQuiz(t *testing.T) {
	store := newStubQuizStore()
	svc := NewService(store, zerolog.New(io.Discard))

	id, err := svc.Create(context.Background(), validCreate())
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(context.Background(), id))
	_, err = svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), id), ErrNotFound)
}
