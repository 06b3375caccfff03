package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/graduat/graduat-backend/internal/model"
)

// ErrNotFound is returned when a lookup matches no row. Implementations
// translate their driver's sentinel so services never import the driver.
var ErrNotFound = errors.New("not found")

// TestStore reads the immutable content store. The engine never writes tests.
type TestStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.WeeklyTest, error)
	GetBySubjectAndID(ctx context.Context, subject model.Subject, id uuid.UUID) (*model.WeeklyTest, error)
	ListAll(ctx context.Context) ([]model.WeeklyTest, error)
	ListQuestions(ctx context.Context, testID uuid.UUID) ([]model.Question, error)
}

// AssignmentStore is the Assignment Ledger.
type AssignmentStore interface {
	Create(ctx context.Context, a *model.Assignment) error
	ListAll(ctx context.Context) ([]model.Assignment, error)
	ListBySubjects(ctx context.Context, subjects []string) ([]model.Assignment, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Assignment, error)
	// FindActiveForStudent locates the assigned-state cohort entry containing
	// the student for (testID, subject). Returns ErrNotFound when none.
	FindActiveForStudent(ctx context.Context, testID uuid.UUID, subject model.Subject, studentID string) (*model.Assignment, error)
	// HasCompletedMarker reports whether a single-student completed record
	// already exists for this student and test.
	HasCompletedMarker(ctx context.Context, testID uuid.UUID, subject model.Subject, studentID string) (bool, error)
	// RemoveStudent peels a student out of an assigned cohort entry: with
	// more than one member the id is removed, with a sole member the entry
	// flips to completed instead. One atomic statement either way.
	RemoveStudent(ctx context.Context, assignmentID uuid.UUID, studentID string) error
	DeleteBySubjects(ctx context.Context, subjects []string) (int64, error)
}

// ResultStore is the append-only Result Store.
type ResultStore interface {
	Create(ctx context.Context, r *model.Result) error
	ExistsForStudentTest(ctx context.Context, studentID string, testID uuid.UUID, subject model.Subject) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Result, error)
	ListBySubjects(ctx context.Context, subjects []string) ([]model.Result, error)
	DeleteBySubjects(ctx context.Context, subjects []string) (int64, error)
}

// NotificationStore persists teacher notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	CreateBatch(ctx context.Context, ns []model.Notification) error
	ListUnreadBySubjects(ctx context.Context, subjects []string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	DeleteBySubjects(ctx context.Context, subjects []string) (int64, error)
}

// StudentStore looks up Alumno accounts.
type StudentStore interface {
	GetByUsuario(ctx context.Context, usuario string) (*model.Student, error)
}

// TeacherStore looks up Maestro accounts for auth and subject scoping.
type TeacherStore interface {
	Create(ctx context.Context, t *model.Teacher) error
	// GetByUsuario resolves a teacher by usuario, falling back to correo.
	GetByUsuario(ctx context.Context, usuario string) (*model.Teacher, error)
}
