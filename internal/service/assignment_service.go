package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
)

// Domain errors.
var (
	ErrEmptyCohort    = errors.New("studentIds must not be empty")
	ErrNoTests        = errors.New("testIds must not be empty")
	ErrInvalidSubject = errors.New("unknown subject tag")
)

// ClearSummary reports what a bulk clear removed.
type ClearSummary struct {
	Assignments   int64 `json:"asignaciones"`
	Results       int64 `json:"resultados"`
	Notifications int64 `json:"notificaciones"`
}

// TeacherBoard is the combined assignment+result view for a teacher.
type TeacherBoard struct {
	Assignments []model.Assignment `json:"asignaciones"`
	Results     []model.Result     `json:"resultados"`
}

// AssignmentService owns the Assignment Ledger operations: creating cohort
// assignments, listing them (globally, teacher-scoped, or per student) and
// the irreversible subject-scoped bulk clear.
type AssignmentService struct {
	assignments   repository.AssignmentStore
	results       repository.ResultStore
	notifications repository.NotificationStore
	teachers      repository.TeacherStore
	content       testAnnotator
	cfg           *config.Config
	log           zerolog.Logger
}

// testAnnotator is the slice of ContentService the student listing needs.
type testAnnotator interface {
	GetTestByID(ctx context.Context, id uuid.UUID) (*model.WeeklyTest, error)
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	assignments repository.AssignmentStore,
	results repository.ResultStore,
	notifications repository.NotificationStore,
	teachers repository.TeacherStore,
	content testAnnotator,
	cfg *config.Config,
	log zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments:   assignments,
		results:       results,
		notifications: notifications,
		teachers:      teachers,
		content:       content,
		cfg:           cfg,
		log:           log.With().Str("component", "assignment_service").Logger(),
	}
}

// Create inserts one ledger entry per test id, all sharing the cohort and
// dates. Student and test ids are not checked against their stores; an
// unknown id simply never matches downstream, matching the ledger's
// historical behavior. An empty cohort or test list is rejected.
func (s *AssignmentService) Create(ctx context.Context, req *model.CreateAssignmentRequest, assignedBy string) ([]model.Assignment, error) {
	if len(req.StudentIDs) == 0 {
		return nil, ErrEmptyCohort
	}
	if len(req.TestIDs) == 0 {
		return nil, ErrNoTests
	}
	if !model.ValidSubject(req.TestType) {
		return nil, ErrInvalidSubject
	}

	now := time.Now()
	assignedAt := now
	if req.FechaAsignacion != nil {
		assignedAt = *req.FechaAsignacion
	}
	dueAt := now.AddDate(0, 0, s.cfg.DefaultDueDays)
	if req.FechaVencimiento != nil {
		dueAt = *req.FechaVencimiento
	}

	created := make([]model.Assignment, 0, len(req.TestIDs))
	for _, testID := range req.TestIDs {
		a := model.Assignment{
			TestID:     testID,
			Subject:    req.TestType,
			StudentIDs: append([]string(nil), req.StudentIDs...),
			AssignedBy: assignedBy,
			AssignedAt: assignedAt,
			DueAt:      dueAt,
			State:      model.AssignmentStateAssigned,
		}
		if err := s.assignments.Create(ctx, &a); err != nil {
			return created, fmt.Errorf("create assignment for test %s: %w", testID, err)
		}
		created = append(created, a)
	}

	s.log.Info().
		Int("tests", len(req.TestIDs)).
		Int("students", len(req.StudentIDs)).
		Str("subject", string(req.TestType)).
		Msg("Assignments created")

	return created, nil
}

// ListAll returns every ledger entry.
func (s *AssignmentService) ListAll(ctx context.Context) ([]model.Assignment, error) {
	return s.assignments.ListAll(ctx)
}

// ListForTeacher returns ledger entries scoped to the subjects the teacher
// teaches. A teacher whose courses match no subject gets an empty list,
// never an error.
func (s *AssignmentService) ListForTeacher(ctx context.Context, teacherUsuario string) ([]model.Assignment, error) {
	subjects, err := s.teacherSubjects(ctx, teacherUsuario)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return []model.Assignment{}, nil
	}
	return s.assignments.ListBySubjects(ctx, subjects.Strings())
}

// Board returns the combined assignment+result view for a teacher's subjects.
func (s *AssignmentService) Board(ctx context.Context, teacherUsuario string) (*TeacherBoard, error) {
	subjects, err := s.teacherSubjects(ctx, teacherUsuario)
	if err != nil {
		return nil, err
	}
	board := &TeacherBoard{Assignments: []model.Assignment{}, Results: []model.Result{}}
	if len(subjects) == 0 {
		return board, nil
	}

	if board.Assignments, err = s.assignments.ListBySubjects(ctx, subjects.Strings()); err != nil {
		return nil, err
	}
	if board.Results, err = s.results.ListBySubjects(ctx, subjects.Strings()); err != nil {
		return nil, err
	}
	if board.Assignments == nil {
		board.Assignments = []model.Assignment{}
	}
	if board.Results == nil {
		board.Results = []model.Result{}
	}
	return board, nil
}

// ListForStudent returns the assignments whose cohort contains the student,
// annotated with the resolved test document and the per-student estado. The
// estado flips to completado as soon as a Result exists, even before the
// ledger mutation has landed.
func (s *AssignmentService) ListForStudent(ctx context.Context, studentID string) ([]model.StudentAssignmentView, error) {
	assignments, err := s.assignments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	views := make([]model.StudentAssignmentView, 0, len(assignments))
	for _, a := range assignments {
		view := model.StudentAssignmentView{Assignment: a, Estado: model.EstadoPendiente}

		if test, err := s.content.GetTestByID(ctx, a.TestID); err == nil {
			view.Test = test
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// A dangling test id leaves the annotation empty instead of failing
		// the whole listing.

		done, err := s.results.ExistsForStudentTest(ctx, studentID, a.TestID, a.Subject)
		if err != nil {
			return nil, err
		}
		if done || a.State == model.AssignmentStateCompleted {
			view.Estado = model.EstadoCompletado
		}

		views = append(views, view)
	}
	return views, nil
}

// BulkClear deletes all assignments, results and notifications in the
// requesting teacher's subjects. Used to reset demo data; irreversible.
func (s *AssignmentService) BulkClear(ctx context.Context, teacherUsuario string) (*ClearSummary, error) {
	subjects, err := s.teacherSubjects(ctx, teacherUsuario)
	if err != nil {
		return nil, err
	}
	summary := &ClearSummary{}
	if len(subjects) == 0 {
		return summary, nil
	}

	names := subjects.Strings()
	if summary.Assignments, err = s.assignments.DeleteBySubjects(ctx, names); err != nil {
		return nil, fmt.Errorf("clear assignments: %w", err)
	}
	if summary.Results, err = s.results.DeleteBySubjects(ctx, names); err != nil {
		return nil, fmt.Errorf("clear results: %w", err)
	}
	if summary.Notifications, err = s.notifications.DeleteBySubjects(ctx, names); err != nil {
		return nil, fmt.Errorf("clear notifications: %w", err)
	}

	s.log.Warn().
		Str("teacher", teacherUsuario).
		Strs("subjects", names).
		Int64("assignments", summary.Assignments).
		Int64("results", summary.Results).
		Int64("notifications", summary.Notifications).
		Msg("Bulk clear executed")

	return summary, nil
}

func (s *AssignmentService) teacherSubjects(ctx context.Context, usuario string) (model.SubjectSet, error) {
	teacher, err := s.teachers.GetByUsuario(ctx, usuario)
	if err != nil {
		return nil, err
	}
	return teacher.Subjects(), nil
}
