package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnsphere/question-bank/internal/bank"
)

// BankRepository implements bank.Store against Postgres. Writers of the
// same scope are serialized with a transaction-scoped advisory lock, which
// is what makes count-then-insert sequence allocation safe.
type BankRepository struct {
	pool *pgxpool.Pool
}

var _ bank.Store = (*BankRepository)(nil)

func NewBankRepository(pool *pgxpool.Pool) *BankRepository {
	return &BankRepository{pool: pool}
}

func (r *BankRepository) InScope(ctx context.Context, scope bank.Scope, fn func(ctx context.Context, tx bank.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &bank.StorageError{Op: "begin tx", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, scope.String()); err != nil {
		return &bank.StorageError{Op: "lock scope", Err: err}
	}

	if err := fn(ctx, &bankTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &bank.StorageError{Op: "commit", Err: err}
	}
	return nil
}

func (r *BankRepository) GetQuestion(ctx context.Context, id uuid.UUID) (*bank.Question, error) {
	return getQuestion(ctx, poolQuerier{r.pool}, id)
}

func (r *BankRepository) ListQuestions(ctx context.Context, scope bank.Scope) ([]bank.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id, scope_kind, parent_id, question_no, body, question_type,
		        created_by, created_at, modified_by, modified_at
		 FROM questions
		 WHERE scope_kind = $1 AND parent_id = $2
		 ORDER BY question_no`,
		string(scope.Kind), scope.ParentID,
	)
	if err != nil {
		return nil, &bank.StorageError{Op: "list questions", Err: err}
	}
	defer rows.Close()

	var questions []bank.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, &bank.StorageError{Op: "scan question", Err: err}
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, &bank.StorageError{Op: "list questions", Err: err}
	}

	if err := attachOptions(ctx, poolQuerier{r.pool}, questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []bank.Question{}
	}
	return questions, nil
}

// bankTx adapts a pgx transaction to bank.Tx.
type bankTx struct {
	tx pgx.Tx
}

func (t *bankTx) CountQuestions(ctx context.Context, scope bank.Scope) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE scope_kind = $1 AND parent_id = $2`,
		string(scope.Kind), scope.ParentID,
	).Scan(&n)
	if err != nil {
		return 0, &bank.StorageError{Op: "count questions", Err: err}
	}
	return n, nil
}

func (t *bankTx) GetQuestion(ctx context.Context, id uuid.UUID) (*bank.Question, error) {
	return getQuestion(ctx, txQuerier{t.tx}, id)
}

func (t *bankTx) InsertQuestion(ctx context.Context, q *bank.Question) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO questions (question_id, scope_kind, parent_id, question_no, body, question_type, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID, string(q.Scope.Kind), q.Scope.ParentID, q.SequenceNo, q.Body, string(q.Type), q.CreatedBy, q.CreatedAt,
	)
	if err != nil {
		return &bank.StorageError{Op: "insert question", Err: err}
	}
	return nil
}

func (t *bankTx) InsertOptions(ctx context.Context, options []bank.Option) error {
	if len(options) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, o := range options {
		batch.Queue(
			`INSERT INTO question_options (option_id, question_id, option_text, is_correct)
			 VALUES ($1, $2, $3, $4)`,
			o.ID, o.QuestionID, o.Text, o.IsCorrect,
		)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return &bank.StorageError{Op: "insert options", Err: err}
	}
	return nil
}

func (t *bankTx) UpdateQuestionBody(ctx context.Context, id uuid.UUID, body, modifiedBy string, modifiedAt time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE questions SET body = $2, modified_by = $3, modified_at = $4 WHERE question_id = $1`,
		id, body, modifiedBy, modifiedAt,
	)
	if err != nil {
		return &bank.StorageError{Op: "update question", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return bank.ErrNotFound
	}
	return nil
}

func (t *bankTx) DeleteOptionsByQuestion(ctx context.Context, id uuid.UUID) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM question_options WHERE question_id = $1`, id); err != nil {
		return &bank.StorageError{Op: "delete options", Err: err}
	}
	return nil
}

func (t *bankTx) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM questions WHERE question_id = $1`, id)
	if err != nil {
		return &bank.StorageError{Op: "delete question", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return bank.ErrNotFound
	}
	return nil
}

func (t *bankTx) ShiftSequencesAfter(ctx context.Context, scope bank.Scope, after int) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE questions SET question_no = question_no - 1
		 WHERE scope_kind = $1 AND parent_id = $2 AND question_no > $3`,
		string(scope.Kind), scope.ParentID, after,
	)
	if err != nil {
		return &bank.StorageError{Op: "shift sequences", Err: err}
	}
	return nil
}

func (t *bankTx) SequenceNumbers(ctx context.Context, scope bank.Scope) ([]int, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT question_no FROM questions
		 WHERE scope_kind = $1 AND parent_id = $2
		 ORDER BY question_no`,
		string(scope.Kind), scope.ParentID,
	)
	if err != nil {
		return nil, &bank.StorageError{Op: "read sequences", Err: err}
	}
	defer rows.Close()

	var seqs []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, &bank.StorageError{Op: "scan sequence", Err: err}
		}
		seqs = append(seqs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, &bank.StorageError{Op: "read sequences", Err: err}
	}
	return seqs, nil
}

// rowQuerier abstracts pool vs tx for the shared read helpers.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type poolQuerier struct{ pool *pgxpool.Pool }

func (p poolQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

func (p poolQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

type txQuerier struct{ tx pgx.Tx }

func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.tx.Query(ctx, sql, args...)
}

func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}

func getQuestion(ctx context.Context, q rowQuerier, id uuid.UUID) (*bank.Question, error) {
	row := q.QueryRow(ctx,
		`SELECT question_id, scope_kind, parent_id, question_no, body, question_type,
		        created_by, created_at, modified_by, modified_at
		 FROM questions WHERE question_id = $1`,
		id,
	)
	question, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bank.ErrNotFound
		}
		return nil, &bank.StorageError{Op: "get question", Err: err}
	}

	questions := []bank.Question{*question}
	if err := attachOptions(ctx, q, questions); err != nil {
		return nil, err
	}
	return &questions[0], nil
}

func attachOptions(ctx context.Context, q rowQuerier, questions []bank.Question) error {
	if len(questions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(questions))
	index := make(map[uuid.UUID]*bank.Question, len(questions))
	for i := range questions {
		ids = append(ids, questions[i].ID.String())
		index[questions[i].ID] = &questions[i]
	}

	rows, err := q.Query(ctx,
		`SELECT option_id, question_id, option_text, is_correct
		 FROM question_options
		 WHERE question_id = ANY($1::uuid[])
		 ORDER BY option_id`,
		ids,
	)
	if err != nil {
		return &bank.StorageError{Op: "list options", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var o bank.Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.IsCorrect); err != nil {
			return &bank.StorageError{Op: "scan option", Err: err}
		}
		if owner, ok := index[o.QuestionID]; ok {
			owner.Options = append(owner.Options, o)
		}
	}
	if err := rows.Err(); err != nil {
		return &bank.StorageError{Op: "list options", Err: err}
	}
	return nil
}

type questionRow interface {
	Scan(dest ...any) error
}

func scanQuestion(row questionRow) (*bank.Question, error) {
	var (
		q    bank.Question
		kind string
		qt   string
	)
	err := row.Scan(&q.ID, &kind, &q.Scope.ParentID, &q.SequenceNo, &q.Body, &qt,
		&q.CreatedBy, &q.CreatedAt, &q.ModifiedBy, &q.ModifiedAt)
	if err != nil {
		return nil, err
	}
	q.Scope.Kind = bank.Kind(kind)
	q.Type = bank.QuestionType(qt)
	return &q, nil
}
