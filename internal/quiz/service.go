package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound     = errors.New("quiz not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Store persists quizzes.
type Store interface {
	Insert(ctx context.Context, q *Quiz) error
	Update(ctx context.Context, q *Quiz) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*Quiz, error)
	List(ctx context.Context) ([]Quiz, error)
}

// Service handles quiz lifecycle. Question banks attached to a quiz are
// managed by the bank service; deleting a quiz is rejected by the database
// while questions still reference it.
type Service struct {
	store  Store
	now    func() time.Time
	logger zerolog.Logger
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "quiz_service").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (uuid.UUID, error) {
	if err := validate(in.Name, in.Duration, in.PassMark, in.AttemptsAllowed); err != nil {
		return uuid.Nil, err
	}

	q := Quiz{
		ID:              uuid.New(),
		CourseID:        in.CourseID,
		TopicID:         in.TopicID,
		Name:            in.Name,
		Duration:        in.Duration,
		PassMark:        in.PassMark,
		AttemptsAllowed: in.AttemptsAllowed,
		CreatedBy:       in.Actor,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.store.Insert(ctx, &q); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info().Str("quiz_id", q.ID.String()).Msg("quiz created")
	return q.ID, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) error {
	if err := validate(in.Name, in.Duration, in.PassMark, in.AttemptsAllowed); err != nil {
		return err
	}

	q, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	q.Name = in.Name
	q.Duration = in.Duration
	q.PassMark = in.PassMark
	q.AttemptsAllowed = in.AttemptsAllowed
	now := s.now().UTC()
	q.ModifiedBy = &in.Actor
	q.ModifiedAt = &now

	return s.store.Update(ctx, q)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Quiz, error) {
	return s.store.List(ctx)
}

func validate(name string, duration, passMark int, attempts *int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if passMark <= 0 {
		return fmt.Errorf("%w: pass mark must be positive", ErrInvalidInput)
	}
	if attempts != nil && *attempts <= 0 {
		return fmt.Errorf("%w: attempts allowed must be nil or positive", ErrInvalidInput)
	}
	return nil
}
