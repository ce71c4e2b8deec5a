package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnsphere/question-bank/internal/feedback"
)

// FeedbackRepository implements feedback.Store against Postgres.
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

var _ feedback.Store = (*FeedbackRepository)(nil)

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func (r *FeedbackRepository) Insert(ctx context.Context, resp *feedback.Response) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO feedback_responses (response_id, question_id, learner_id, response_text, option_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		resp.ID, resp.QuestionID, resp.LearnerID, resp.Text, resp.OptionID, resp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback response: %w", err)
	}
	return nil
}
