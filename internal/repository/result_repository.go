package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/graduat/graduat-backend/internal/model"
)

// ResultRepository handles Result Store data access. Inserts only; results
// are immutable once written.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Create appends a submission record. There is no uniqueness constraint on
// (student, test, subject); repeat submissions add rows.
func (r *ResultRepository) Create(ctx context.Context, res *model.Result) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO results (id, student_usuario, test_id, subject, answers, score,
		                      correct_count, total_questions, earned_points, total_points,
		                      points_per_question, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		res.ID, res.StudentID, res.TestID, res.Subject, res.Answers, res.Score,
		res.CorrectCount, res.TotalQuestions, res.EarnedPoints, res.TotalPoints,
		res.PointsPerQuestion, res.SubmittedAt,
	)
	return err
}

// ExistsForStudentTest reports whether any submission exists for the triple.
func (r *ResultRepository) ExistsForStudentTest(ctx context.Context, studentID string, testID uuid.UUID, subject model.Subject) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM results
			WHERE student_usuario = $1 AND test_id = $2 AND subject = $3
		 )`, studentID, testID, subject,
	).Scan(&exists)
	return exists, err
}

const resultColumns = `id, student_usuario, test_id, subject, answers, score,
	correct_count, total_questions, earned_points, total_points,
	points_per_question, submitted_at`

// ListByStudent retrieves all submissions by one student, newest first.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string) ([]model.Result, error) {
	return r.list(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE student_usuario = $1 ORDER BY submitted_at DESC`, studentID)
}

// ListBySubjects retrieves all submissions in the given subjects, newest first.
func (r *ResultRepository) ListBySubjects(ctx context.Context, subjects []string) ([]model.Result, error) {
	return r.list(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE subject = ANY($1) ORDER BY submitted_at DESC`, subjects)
}

// DeleteBySubjects removes all submissions in the given subjects.
func (r *ResultRepository) DeleteBySubjects(ctx context.Context, subjects []string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM results WHERE subject = ANY($1)`, subjects)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ResultRepository) list(ctx context.Context, query string, args ...any) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		if err := rows.Scan(&res.ID, &res.StudentID, &res.TestID, &res.Subject, &res.Answers,
			&res.Score, &res.CorrectCount, &res.TotalQuestions, &res.EarnedPoints,
			&res.TotalPoints, &res.PointsPerQuestion, &res.SubmittedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
