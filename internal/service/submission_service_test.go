package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
)

// ─── Fakes ──────────────────────────────────────────────────────────

type fakeContent struct {
	tests map[uuid.UUID]*model.WeeklyTest
	keys  map[uuid.UUID]map[string]string
}

func (f *fakeContent) GetTest(_ context.Context, subject model.Subject, id uuid.UUID) (*model.WeeklyTest, error) {
	t, ok := f.tests[id]
	if !ok || t.Subject != subject {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeContent) GetTestByID(_ context.Context, id uuid.UUID) (*model.WeeklyTest, error) {
	t, ok := f.tests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeContent) GetAnswerKey(_ context.Context, testID uuid.UUID) (map[string]string, error) {
	key, ok := f.keys[testID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return key, nil
}

type fakeAssignments struct {
	entries map[uuid.UUID]*model.Assignment
}

func newFakeAssignments() *fakeAssignments {
	return &fakeAssignments{entries: make(map[uuid.UUID]*model.Assignment)}
}

func (f *fakeAssignments) Create(_ context.Context, a *model.Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	cp.StudentIDs = append([]string(nil), a.StudentIDs...)
	f.entries[a.ID] = &cp
	return nil
}

func (f *fakeAssignments) ListAll(_ context.Context) ([]model.Assignment, error) {
	out := make([]model.Assignment, 0, len(f.entries))
	for _, a := range f.entries {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAssignments) ListBySubjects(_ context.Context, subjects []string) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range f.entries {
		for _, s := range subjects {
			if string(a.Subject) == s {
				out = append(out, *a)
			}
		}
	}
	return out, nil
}

func (f *fakeAssignments) ListByStudent(_ context.Context, studentID string) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range f.entries {
		for _, id := range a.StudentIDs {
			if id == studentID {
				out = append(out, *a)
			}
		}
	}
	return out, nil
}

func (f *fakeAssignments) FindActiveForStudent(_ context.Context, testID uuid.UUID, subject model.Subject, studentID string) (*model.Assignment, error) {
	for _, a := range f.entries {
		if a.TestID != testID || a.Subject != subject || a.State != model.AssignmentStateAssigned {
			continue
		}
		for _, id := range a.StudentIDs {
			if id == studentID {
				cp := *a
				return &cp, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssignments) HasCompletedMarker(_ context.Context, testID uuid.UUID, subject model.Subject, studentID string) (bool, error) {
	for _, a := range f.entries {
		if a.TestID == testID && a.Subject == subject &&
			a.State == model.AssignmentStateCompleted &&
			len(a.StudentIDs) == 1 && a.StudentIDs[0] == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAssignments) RemoveStudent(_ context.Context, assignmentID uuid.UUID, studentID string) error {
	a, ok := f.entries[assignmentID]
	if !ok || a.State != model.AssignmentStateAssigned {
		return nil
	}
	member := false
	for _, id := range a.StudentIDs {
		if id == studentID {
			member = true
			break
		}
	}
	if !member {
		return nil
	}
	if len(a.StudentIDs) == 1 {
		now := time.Now()
		a.State = model.AssignmentStateCompleted
		a.CompletedAt = &now
		return nil
	}
	kept := a.StudentIDs[:0]
	for _, id := range a.StudentIDs {
		if id != studentID {
			kept = append(kept, id)
		}
	}
	a.StudentIDs = kept
	return nil
}

func (f *fakeAssignments) DeleteBySubjects(_ context.Context, subjects []string) (int64, error) {
	var n int64
	for id, a := range f.entries {
		for _, s := range subjects {
			if string(a.Subject) == s {
				delete(f.entries, id)
				n++
				break
			}
		}
	}
	return n, nil
}

type fakeResults struct {
	rows []model.Result
}

func (f *fakeResults) Create(_ context.Context, r *model.Result) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeResults) ExistsForStudentTest(_ context.Context, studentID string, testID uuid.UUID, subject model.Subject) (bool, error) {
	for _, r := range f.rows {
		if r.StudentID == studentID && r.TestID == testID && r.Subject == subject {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResults) ListByStudent(_ context.Context, studentID string) ([]model.Result, error) {
	var out []model.Result
	for _, r := range f.rows {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResults) ListBySubjects(_ context.Context, subjects []string) ([]model.Result, error) {
	var out []model.Result
	for _, r := range f.rows {
		for _, s := range subjects {
			if string(r.Subject) == s {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeResults) DeleteBySubjects(_ context.Context, subjects []string) (int64, error) {
	var kept []model.Result
	var n int64
	for _, r := range f.rows {
		deleted := false
		for _, s := range subjects {
			if string(r.Subject) == s {
				deleted = true
				break
			}
		}
		if deleted {
			n++
		} else {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return n, nil
}

type fakeEmitter struct {
	emitted []model.Notification
}

func (f *fakeEmitter) Emit(_ context.Context, n model.Notification) error {
	f.emitted = append(f.emitted, n)
	return nil
}

// ─── Fixtures ───────────────────────────────────────────────────────

type submissionFixture struct {
	svc         *SubmissionService
	assignments *fakeAssignments
	results     *fakeResults
	emitter     *fakeEmitter
	testID      uuid.UUID
	cohortID    uuid.UUID
}

func newSubmissionFixture(t *testing.T, cohort []string) *submissionFixture {
	t.Helper()

	testID := uuid.New()
	content := &fakeContent{
		tests: map[uuid.UUID]*model.WeeklyTest{
			testID: {ID: testID, Subject: model.SubjectMatematicas, WeekNumber: 1, Title: "Semana 1"},
		},
		keys: map[uuid.UUID]map[string]string{
			testID: {"q1": "a", "q2": "b"},
		},
	}

	assignments := newFakeAssignments()
	cohortEntry := &model.Assignment{
		TestID:     testID,
		Subject:    model.SubjectMatematicas,
		StudentIDs: cohort,
		AssignedBy: "prof1",
		AssignedAt: time.Now().Add(-time.Hour),
		DueAt:      time.Now().Add(6 * 24 * time.Hour),
		State:      model.AssignmentStateAssigned,
	}
	require.NoError(t, assignments.Create(context.Background(), cohortEntry))

	results := &fakeResults{}
	emitter := &fakeEmitter{}
	svc := NewSubmissionService(content, assignments, results, emitter, zerolog.Nop())

	return &submissionFixture{
		svc:         svc,
		assignments: assignments,
		results:     results,
		emitter:     emitter,
		testID:      testID,
		cohortID:    cohortEntry.ID,
	}
}

func (fx *submissionFixture) byState(state model.AssignmentState) []model.Assignment {
	var out []model.Assignment
	for _, a := range fx.assignments.entries {
		if a.State == state {
			out = append(out, *a)
		}
	}
	return out
}

// ─── Tests ──────────────────────────────────────────────────────────

func TestSubmitSplitsCohort(t *testing.T) {
	fx := newSubmissionFixture(t, []string{"s1", "s2", "s3"})

	resp, err := fx.svc.Submit(context.Background(), "s1", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "a", "q2": "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Score)
	assert.Equal(t, 1, resp.CorrectAnswers)
	assert.Equal(t, 2, resp.EarnedPoints)
	assert.Equal(t, 4, resp.TotalPoints)

	// One result row appended.
	require.Len(t, fx.results.rows, 1)
	assert.Equal(t, "s1", fx.results.rows[0].StudentID)

	// The cohort entry lost s1, a completed marker for s1 appeared, and no
	// student is in both.
	assigned := fx.byState(model.AssignmentStateAssigned)
	require.Len(t, assigned, 1)
	assert.ElementsMatch(t, []string{"s2", "s3"}, assigned[0].StudentIDs)

	completed := fx.byState(model.AssignmentStateCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, []string{"s1"}, completed[0].StudentIDs)
	assert.Equal(t, "prof1", completed[0].AssignedBy)
	require.NotNil(t, completed[0].CompletedAt)

	// Notification emitted with the score.
	require.Len(t, fx.emitter.emitted, 1)
	assert.Equal(t, model.NotificationTestCompleted, fx.emitter.emitted[0].Type)
	assert.Equal(t, 50, fx.emitter.emitted[0].Score)
}

func TestSubmitLastStudentFlipsCohort(t *testing.T) {
	fx := newSubmissionFixture(t, []string{"s1", "s2"})
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, "s1", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "a", "q2": "b"}, nil)
	require.NoError(t, err)

	_, err = fx.svc.Submit(ctx, "s2", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "a", "q2": "b"}, nil)
	require.NoError(t, err)

	// No assigned entries remain: two single-student markers plus the
	// original entry flipped to completed still holding the last member.
	assert.Empty(t, fx.byState(model.AssignmentStateAssigned))

	completed := fx.byState(model.AssignmentStateCompleted)
	require.Len(t, completed, 3)

	original := fx.assignments.entries[fx.cohortID]
	require.NotNil(t, original)
	assert.Equal(t, model.AssignmentStateCompleted, original.State)
	assert.Equal(t, []string{"s2"}, original.StudentIDs)
	require.NotNil(t, original.CompletedAt)
}

func TestSubmitDuplicateAppendsSecondResult(t *testing.T) {
	fx := newSubmissionFixture(t, []string{"s1", "s2"})
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, "s1", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "a", "q2": "b"}, nil)
	require.NoError(t, err)

	// Second submission: no active cohort entry for s1 anymore, so the
	// ledger is untouched, but a second result still lands.
	_, err = fx.svc.Submit(ctx, "s1", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "x", "q2": "x"}, nil)
	require.NoError(t, err)

	assert.Len(t, fx.results.rows, 2)
	assert.Len(t, fx.byState(model.AssignmentStateCompleted), 1)

	assigned := fx.byState(model.AssignmentStateAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, []string{"s2"}, assigned[0].StudentIDs)
}

func TestHistoryListsOwnResultsOnly(t *testing.T) {
	fx := newSubmissionFixture(t, []string{"s1", "s2"})
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, "s1", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "a", "q2": "b"}, nil)
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, "s1", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "x", "q2": "x"}, nil)
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, "s2", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "a", "q2": "b"}, nil)
	require.NoError(t, err)

	history, err := fx.svc.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, r := range history {
		assert.Equal(t, "s1", r.StudentID)
	}

	other, err := fx.svc.History(ctx, "s3")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSubmitUnknownTest(t *testing.T) {
	fx := newSubmissionFixture(t, []string{"s1"})

	_, err := fx.svc.Submit(context.Background(), "s1", model.SubjectMatematicas, uuid.New(),
		map[string]string{"q1": "a"}, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, fx.results.rows)
	assert.Empty(t, fx.emitter.emitted)
}

func TestSubmitSubjectMismatch(t *testing.T) {
	fx := newSubmissionFixture(t, []string{"s1"})

	_, err := fx.svc.Submit(context.Background(), "s1", model.SubjectComunicacion, fx.testID,
		map[string]string{"q1": "a"}, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, fx.results.rows)
}

func TestSubmitZeroQuestionTest(t *testing.T) {
	fx := newSubmissionFixture(t, []string{"s1"})

	emptyID := uuid.New()
	content := fx.svc.content.(*fakeContent)
	content.tests[emptyID] = &model.WeeklyTest{ID: emptyID, Subject: model.SubjectMatematicas, WeekNumber: 9, Title: "Vacío"}
	content.keys[emptyID] = map[string]string{}

	_, err := fx.svc.Submit(context.Background(), "s1", model.SubjectMatematicas, emptyID,
		map[string]string{"q1": "a"}, nil)
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Empty(t, fx.results.rows)
	assert.Empty(t, fx.emitter.emitted)
}

func TestSubmitWithoutAssignment(t *testing.T) {
	// A student outside the cohort can still submit; grading and the result
	// proceed, the ledger is untouched.
	fx := newSubmissionFixture(t, []string{"s1"})

	resp, err := fx.svc.Submit(context.Background(), "outsider", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "a", "q2": "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Score)

	assigned := fx.byState(model.AssignmentStateAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, []string{"s1"}, assigned[0].StudentIDs)
	assert.Empty(t, fx.byState(model.AssignmentStateCompleted))
}

func TestSubmitUsesClientTimestamp(t *testing.T) {
	fx := newSubmissionFixture(t, []string{"s1"})
	sent := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)

	_, err := fx.svc.Submit(context.Background(), "s1", model.SubjectMatematicas, fx.testID,
		map[string]string{"q1": "a", "q2": "b"}, &sent)
	require.NoError(t, err)

	require.Len(t, fx.results.rows, 1)
	assert.True(t, fx.results.rows[0].SubmittedAt.Equal(sent))
}
