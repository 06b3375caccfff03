package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/graduat/graduat-backend/internal/model"
)

// AssignmentRepository handles Assignment Ledger data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

const assignmentColumns = `id, test_id, subject, student_ids, assigned_by, assigned_at, due_at, state, completed_at`

func scanAssignment(row pgx.Row) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := row.Scan(&a.ID, &a.TestID, &a.Subject, &a.StudentIDs, &a.AssignedBy,
		&a.AssignedAt, &a.DueAt, &a.State, &a.CompletedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a ledger entry. Used both for cohort assignments and for
// synthesized single-student completed markers; the struct's state and
// completed_at are persisted as given.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO assignments (id, test_id, subject, student_ids, assigned_by, assigned_at, due_at, state, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.TestID, a.Subject, a.StudentIDs, a.AssignedBy, a.AssignedAt, a.DueAt, a.State, a.CompletedAt,
	)
	return err
}

// ListAll retrieves every ledger entry, newest first.
func (r *AssignmentRepository) ListAll(ctx context.Context) ([]model.Assignment, error) {
	return r.list(ctx,
		`SELECT `+assignmentColumns+` FROM assignments ORDER BY assigned_at DESC`)
}

// ListBySubjects retrieves entries whose subject is in the given set.
func (r *AssignmentRepository) ListBySubjects(ctx context.Context, subjects []string) ([]model.Assignment, error) {
	return r.list(ctx,
		`SELECT `+assignmentColumns+` FROM assignments
		 WHERE subject = ANY($1) ORDER BY assigned_at DESC`, subjects)
}

// ListByStudent retrieves entries whose cohort contains the student,
// whether still assigned or already completed.
func (r *AssignmentRepository) ListByStudent(ctx context.Context, studentID string) ([]model.Assignment, error) {
	return r.list(ctx,
		`SELECT `+assignmentColumns+` FROM assignments
		 WHERE $1 = ANY(student_ids) AND state IN ('assigned', 'completed')
		 ORDER BY assigned_at DESC`, studentID)
}

// FindActiveForStudent locates the assigned-state cohort entry containing
// the student for (testID, subject).
func (r *AssignmentRepository) FindActiveForStudent(ctx context.Context, testID uuid.UUID, subject model.Subject, studentID string) (*model.Assignment, error) {
	a, err := scanAssignment(r.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments
		 WHERE test_id = $1 AND subject = $2 AND state = 'assigned' AND $3 = ANY(student_ids)
		 LIMIT 1`, testID, subject, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// HasCompletedMarker reports whether a single-student completed record
// already exists for this student and test.
func (r *AssignmentRepository) HasCompletedMarker(ctx context.Context, testID uuid.UUID, subject model.Subject, studentID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM assignments
			WHERE test_id = $1 AND subject = $2 AND state = 'completed'
			  AND student_ids = ARRAY[$3]::text[]
		 )`, testID, subject, studentID,
	).Scan(&exists)
	return exists, err
}

// RemoveStudent performs the split transition as a single atomic statement,
// the analogue of the storage engine's per-document update guarantee: a
// cohort with more than one member loses the student, a sole-member cohort
// flips to completed with its member kept. A repeat call matches zero rows
// and is a no-op.
func (r *AssignmentRepository) RemoveStudent(ctx context.Context, assignmentID uuid.UUID, studentID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE assignments SET
			student_ids  = CASE WHEN cardinality(student_ids) > 1
			                    THEN array_remove(student_ids, $2)
			                    ELSE student_ids END,
			state        = CASE WHEN cardinality(student_ids) = 1
			                    THEN 'completed' ELSE state END,
			completed_at = CASE WHEN cardinality(student_ids) = 1
			                    THEN NOW() ELSE completed_at END
		 WHERE id = $1 AND state = 'assigned' AND $2 = ANY(student_ids)`,
		assignmentID, studentID,
	)
	return err
}

// DeleteBySubjects removes every ledger entry in the given subjects.
// Irreversible; restricted by the caller to the teacher's own subjects.
func (r *AssignmentRepository) DeleteBySubjects(ctx context.Context, subjects []string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM assignments WHERE subject = ANY($1)`, subjects)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *AssignmentRepository) list(ctx context.Context, query string, args ...any) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}
