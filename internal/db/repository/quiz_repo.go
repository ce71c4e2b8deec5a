package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnsphere/question-bank/internal/quiz"
)

// QuizRepository implements quiz.Store against Postgres.
type QuizRepository struct {
	pool *pgxpool.Pool
}

var _ quiz.Store = (*QuizRepository)(nil)

func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

func (r *QuizRepository) Insert(ctx context.Context, q *quiz.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO quizzes (quiz_id, course_id, topic_id, name, duration, pass_mark, attempts_allowed, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		q.ID, q.CourseID, q.TopicID, q.Name, q.Duration, q.PassMark, q.AttemptsAllowed, q.CreatedBy, q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (r *QuizRepository) Update(ctx context.Context, q *quiz.Quiz) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quizzes
		 SET name = $2, duration = $3, pass_mark = $4, attempts_allowed = $5, modified_by = $6, modified_at = $7
		 WHERE quiz_id = $1`,
		q.ID, q.Name, q.Duration, q.PassMark, q.AttemptsAllowed, q.ModifiedBy, q.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return quiz.ErrNotFound
	}
	return nil
}

func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE quiz_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return quiz.ErrNotFound
	}
	return nil
}

func (r *QuizRepository) Get(ctx context.Context, id uuid.UUID) (*quiz.Quiz, error) {
	var q quiz.Quiz
	err := r.pool.QueryRow(ctx,
		`SELECT quiz_id, course_id, topic_id, name, duration, pass_mark, attempts_allowed,
		        created_by, created_at, modified_by, modified_at
		 FROM quizzes WHERE quiz_id = $1`,
		id,
	).Scan(&q.ID, &q.CourseID, &q.TopicID, &q.Name, &q.Duration, &q.PassMark, &q.AttemptsAllowed,
		&q.CreatedBy, &q.CreatedAt, &q.ModifiedBy, &q.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quiz.ErrNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return &q, nil
}

func (r *QuizRepository) List(ctx context.Context) ([]quiz.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT quiz_id, course_id, topic_id, name, duration, pass_mark, attempts_allowed,
		        created_by, created_at, modified_by, modified_at
		 FROM quizzes ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []quiz.Quiz
	for rows.Next() {
		var q quiz.Quiz
		err := rows.Scan(&q.ID, &q.CourseID, &q.TopicID, &q.Name, &q.Duration, &q.PassMark, &q.AttemptsAllowed,
			&q.CreatedBy, &q.CreatedAt, &q.ModifiedBy, &q.ModifiedAt)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}
