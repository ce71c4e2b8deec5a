package bank

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service orchestrates question writes together with their option sets and
// sequence-number side effects. All mutable state lives in the store; the
// service itself is stateless and safe for concurrent use.
type Service struct {
	store  Store
	now    func() time.Time
	logger zerolog.Logger
}

// ServiceOptions tweaks service construction. Now is overridable for tests.
type ServiceOptions struct {
	Now func() time.Time
}

func NewService(store Store, opts ServiceOptions, logger zerolog.Logger) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:  store,
		now:    now,
		logger: logger.With().Str("component", "bank_service").Logger(),
	}
}

// AddQuestion validates the question and its options, allocates the next
// sequence number in scope, and persists question plus options as one
// transaction. Returns the new question's id.
func (s *Service) AddQuestion(ctx context.Context, scope Scope, in AddQuestionInput) (uuid.UUID, error) {
	if !scope.Kind.Valid() {
		return uuid.Nil, invalid("scope", "unknown bank kind "+string(scope.Kind))
	}
	if strings.TrimSpace(in.Body) == "" {
		return uuid.Nil, invalid("body", "must not be empty")
	}
	qt, err := NormalizeType(scope.Kind, in.Type)
	if err != nil {
		return uuid.Nil, err
	}
	if err := ValidateOptions(scope.Kind, qt, in.Options); err != nil {
		return uuid.Nil, err
	}

	q := Question{
		ID:        uuid.New(),
		Scope:     scope,
		Body:      in.Body,
		Type:      qt,
		CreatedBy: in.Actor,
		CreatedAt: s.now().UTC(),
	}

	err = s.store.InScope(ctx, scope, func(ctx context.Context, tx Tx) error {
		seq, err := nextSequence(ctx, tx, scope)
		if err != nil {
			return err
		}
		q.SequenceNo = seq
		if err := tx.InsertQuestion(ctx, &q); err != nil {
			return err
		}
		if err := tx.InsertOptions(ctx, buildOptions(q.ID, in.Options)); err != nil {
			return err
		}
		return verifyDense(ctx, tx, scope)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info().
		Str("question_id", q.ID.String()).
		Str("scope", scope.String()).
		Int("sequence_no", q.SequenceNo).
		Msg("question added")
	return q.ID, nil
}

// UpdateQuestion replaces the body and the entire option set of an existing
// question. The stored type is immutable: a differing claimed type is
// rejected with ErrTypeImmutable, and the new options are validated against
// the stored type. Sequence number and scope are untouched.
func (s *Service) UpdateQuestion(ctx context.Context, id uuid.UUID, in UpdateQuestionInput) error {
	if strings.TrimSpace(in.Body) == "" {
		return invalid("body", "must not be empty")
	}

	existing, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	scope := existing.Scope

	err = s.store.InScope(ctx, scope, func(ctx context.Context, tx Tx) error {
		// Re-read under the scope lock; the question may have been
		// deleted since the unlocked lookup.
		current, err := tx.GetQuestion(ctx, id)
		if err != nil {
			return err
		}
		claimed, err := NormalizeType(scope.Kind, in.Type)
		if err != nil {
			return err
		}
		if claimed != current.Type {
			return ErrTypeImmutable
		}
		if err := ValidateOptions(scope.Kind, current.Type, in.Options); err != nil {
			return err
		}

		if err := tx.UpdateQuestionBody(ctx, id, in.Body, in.Actor, s.now().UTC()); err != nil {
			return err
		}
		if err := tx.DeleteOptionsByQuestion(ctx, id); err != nil {
			return err
		}
		if err := tx.InsertOptions(ctx, buildOptions(id, in.Options)); err != nil {
			return err
		}
		return verifyDense(ctx, tx, scope)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("question_id", id.String()).Msg("question updated")
	return nil
}

// DeleteQuestion removes a question, its options, and closes the sequence
// gap in its scope, all in one transaction. Absent ids yield ErrNotFound
// and write nothing.
func (s *Service) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	existing, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	scope := existing.Scope

	err = s.store.InScope(ctx, scope, func(ctx context.Context, tx Tx) error {
		current, err := tx.GetQuestion(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteOptionsByQuestion(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteQuestion(ctx, id); err != nil {
			return err
		}
		if err := closeGap(ctx, tx, scope, current.SequenceNo); err != nil {
			return err
		}
		return verifyDense(ctx, tx, scope)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("question_id", id.String()).
		Str("scope", scope.String()).
		Msg("question deleted")
	return nil
}

// GetQuestion returns one question with its options.
func (s *Service) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	return s.store.GetQuestion(ctx, id)
}

// ListQuestions returns a scope's questions with options, ordered by
// sequence number ascending. An unknown parent yields an empty slice.
func (s *Service) ListQuestions(ctx context.Context, scope Scope) ([]Question, error) {
	return s.store.ListQuestions(ctx, scope)
}

func buildOptions(questionID uuid.UUID, inputs []OptionInput) []Option {
	options := make([]Option, 0, len(inputs))
	for _, in := range inputs {
		options = append(options, Option{
			ID:         uuid.New(),
			QuestionID: questionID,
			Text:       in.Text,
			IsCorrect:  in.IsCorrect,
		})
	}
	return options
}
