package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/graduat/graduat-backend/internal/model"
)

// TestRepository handles content-store data access. Read-only by design:
// weekly tests are authored out of band (see cmd/seed-tests).
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

// GetByID retrieves a weekly test by id.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.WeeklyTest, error) {
	t := &model.WeeklyTest{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject, week_number, title, created_at
		 FROM tests WHERE id = $1`, id,
	).Scan(&t.ID, &t.Subject, &t.WeekNumber, &t.Title, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetBySubjectAndID retrieves a weekly test addressed by (subject, id).
func (r *TestRepository) GetBySubjectAndID(ctx context.Context, subject model.Subject, id uuid.UUID) (*model.WeeklyTest, error) {
	t := &model.WeeklyTest{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject, week_number, title, created_at
		 FROM tests WHERE id = $1 AND subject = $2`, id, subject,
	).Scan(&t.ID, &t.Subject, &t.WeekNumber, &t.Title, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListAll retrieves every weekly test, newest week first. Used for cache
// prewarming at startup.
func (r *TestRepository) ListAll(ctx context.Context) ([]model.WeeklyTest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, subject, week_number, title, created_at
		 FROM tests ORDER BY subject, week_number DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.WeeklyTest
	for rows.Next() {
		var t model.WeeklyTest
		if err := rows.Scan(&t.ID, &t.Subject, &t.WeekNumber, &t.Title, &t.CreatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// ListQuestions retrieves all questions for a test, ordered by order_num.
func (r *TestRepository) ListQuestions(ctx context.Context, testID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, prompt, options, correct_answer, order_num
		 FROM questions WHERE test_id = $1
		 ORDER BY order_num`, testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.TestID, &q.Prompt, &q.Options, &q.CorrectAnswer, &q.OrderNum); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
