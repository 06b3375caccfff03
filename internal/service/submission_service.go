package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
)

// SubmissionService runs the submission workflow: score the answers against
// the content store, append the Result, peel the student out of the cohort
// ledger entry, and emit a teacher notification.
//
// The sequence is deliberately not transactional: each step is an
// independent write, and a failure mid-sequence leaves the earlier writes in
// place (a Result with an unmutated ledger is an accepted partial state).
// Re-submission is not prevented: a second submission appends a second
// Result and the ledger removal falls through as a no-op.
type SubmissionService struct {
	content       testResolver
	assignments   repository.AssignmentStore
	results       repository.ResultStore
	notifications notificationEmitter
	log           zerolog.Logger
}

// testResolver is the slice of ContentService the engine needs.
type testResolver interface {
	GetTest(ctx context.Context, subject model.Subject, id uuid.UUID) (*model.WeeklyTest, error)
	GetAnswerKey(ctx context.Context, testID uuid.UUID) (map[string]string, error)
}

// notificationEmitter is the slice of NotificationService the engine needs.
type notificationEmitter interface {
	Emit(ctx context.Context, n model.Notification) error
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	content testResolver,
	assignments repository.AssignmentStore,
	results repository.ResultStore,
	notifications notificationEmitter,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		content:       content,
		assignments:   assignments,
		results:       results,
		notifications: notifications,
		log:           log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit grades a student's answers for (subject, testID) and records the
// outcome. submittedAt defaults to now when the client sends no timestamp.
func (s *SubmissionService) Submit(
	ctx context.Context,
	studentID string,
	subject model.Subject,
	testID uuid.UUID,
	answers map[string]string,
	submittedAt *time.Time,
) (*model.SubmissionResponse, error) {
	// Resolve the test first so an unknown or mismatched id fails before
	// any write happens.
	if _, err := s.content.GetTest(ctx, subject, testID); err != nil {
		return nil, err
	}

	answerKey, err := s.content.GetAnswerKey(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("answer key: %w", err)
	}

	breakdown, err := Grade(answerKey, answers)
	if err != nil {
		return nil, err
	}

	when := time.Now()
	if submittedAt != nil {
		when = *submittedAt
	}

	result := &model.Result{
		StudentID:         studentID,
		TestID:            testID,
		Subject:           subject,
		Answers:           answers,
		Score:             breakdown.Score,
		CorrectCount:      breakdown.CorrectCount,
		TotalQuestions:    breakdown.TotalQuestions,
		EarnedPoints:      breakdown.EarnedPoints,
		TotalPoints:       breakdown.TotalPoints,
		PointsPerQuestion: breakdown.PointsPerQuestion,
		SubmittedAt:       when,
	}
	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("record result: %w", err)
	}

	if err := s.splitCohort(ctx, studentID, subject, testID, when); err != nil {
		// The Result is already recorded; surface the ledger failure
		// without undoing it.
		return nil, err
	}

	notification := model.Notification{
		Type:      model.NotificationTestCompleted,
		StudentID: studentID,
		TestID:    testID,
		Subject:   subject,
		Score:     breakdown.Score,
		CreatedAt: when,
	}
	if err := s.notifications.Emit(ctx, notification); err != nil {
		// Notification loss does not fail the submission.
		s.log.Error().Err(err).
			Str("student", studentID).
			Str("test_id", testID.String()).
			Msg("Notification emit failed")
	}

	s.log.Info().
		Str("student", studentID).
		Str("test_id", testID.String()).
		Str("subject", string(subject)).
		Int("score", breakdown.Score).
		Msg("Submission graded")

	return &model.SubmissionResponse{
		Score:             breakdown.Score,
		TotalQuestions:    breakdown.TotalQuestions,
		CorrectAnswers:    breakdown.CorrectCount,
		EarnedPoints:      breakdown.EarnedPoints,
		TotalPoints:       breakdown.TotalPoints,
		PointsPerQuestion: breakdown.PointsPerQuestion,
		TimeSpent:         0,
	}, nil
}

// History returns the student's submission records, newest first.
func (s *SubmissionService) History(ctx context.Context, studentID string) ([]model.Result, error) {
	return s.results.ListByStudent(ctx, studentID)
}

// splitCohort performs the ledger transition for one submission: synthesize
// the per-student completed marker (once), then remove the student from the
// cohort entry, or flip the entry to completed when the student was its
// sole remaining member.
func (s *SubmissionService) splitCohort(ctx context.Context, studentID string, subject model.Subject, testID uuid.UUID, when time.Time) error {
	cohort, err := s.assignments.FindActiveForStudent(ctx, testID, subject, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// No pending cohort entry: a re-submission, or the student was
			// never assigned this test. Nothing to split.
			return nil
		}
		return fmt.Errorf("locate cohort: %w", err)
	}

	hasMarker, err := s.assignments.HasCompletedMarker(ctx, testID, subject, studentID)
	if err != nil {
		return fmt.Errorf("check completed marker: %w", err)
	}
	if !hasMarker {
		completedAt := when
		marker := model.Assignment{
			TestID:      testID,
			Subject:     subject,
			StudentIDs:  []string{studentID},
			AssignedBy:  cohort.AssignedBy,
			AssignedAt:  cohort.AssignedAt,
			DueAt:       cohort.DueAt,
			State:       model.AssignmentStateCompleted,
			CompletedAt: &completedAt,
		}
		if err := s.assignments.Create(ctx, &marker); err != nil {
			return fmt.Errorf("create completed marker: %w", err)
		}
	}

	if err := s.assignments.RemoveStudent(ctx, cohort.ID, studentID); err != nil {
		return fmt.Errorf("remove student from cohort: %w", err)
	}
	return nil
}
