package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
)

// ─── Fakes ──────────────────────────────────────────────────────────

type fakeTeachers struct {
	byUsuario map[string]*model.Teacher
}

func (f *fakeTeachers) Create(_ context.Context, t *model.Teacher) error {
	f.byUsuario[t.Usuario] = t
	return nil
}

func (f *fakeTeachers) GetByUsuario(_ context.Context, usuario string) (*model.Teacher, error) {
	t, ok := f.byUsuario[usuario]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

type fakeNotifications struct {
	rows []model.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotifications) CreateBatch(_ context.Context, ns []model.Notification) error {
	f.rows = append(f.rows, ns...)
	return nil
}

func (f *fakeNotifications) ListUnreadBySubjects(_ context.Context, subjects []string) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.rows {
		if n.Read {
			continue
		}
		for _, s := range subjects {
			if string(n.Subject) == s {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id uuid.UUID) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeNotifications) DeleteBySubjects(_ context.Context, subjects []string) (int64, error) {
	var kept []model.Notification
	var n int64
	for _, row := range f.rows {
		deleted := false
		for _, s := range subjects {
			if string(row.Subject) == s {
				deleted = true
				break
			}
		}
		if deleted {
			n++
		} else {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return n, nil
}

// ─── Fixtures ───────────────────────────────────────────────────────

type assignmentFixture struct {
	svc           *AssignmentService
	assignments   *fakeAssignments
	results       *fakeResults
	notifications *fakeNotifications
	content       *fakeContent
	mathTestID    uuid.UUID
	commTestID    uuid.UUID
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	mathID := uuid.New()
	commID := uuid.New()
	content := &fakeContent{
		tests: map[uuid.UUID]*model.WeeklyTest{
			mathID: {ID: mathID, Subject: model.SubjectMatematicas, WeekNumber: 1, Title: "Semana 1 - matematicas"},
			commID: {ID: commID, Subject: model.SubjectComunicacion, WeekNumber: 1, Title: "Semana 1 - comunicacion"},
		},
		keys: map[uuid.UUID]map[string]string{
			mathID: {"q1": "a"},
			commID: {"q1": "b"},
		},
	}

	teachers := &fakeTeachers{byUsuario: map[string]*model.Teacher{
		"prof_math": {Usuario: "prof_math", Cursos: []string{"Matemáticas 5A"}},
		"prof_both": {Usuario: "prof_both", Cursos: []string{"Matemáticas 5A", "Comunicación 5A"}},
		"prof_none": {Usuario: "prof_none", Cursos: []string{"Historia"}},
	}}

	assignments := newFakeAssignments()
	results := &fakeResults{}
	notifications := &fakeNotifications{}

	cfg := &config.Config{DefaultDueDays: 7}
	svc := NewAssignmentService(assignments, results, notifications, teachers, content, cfg, zerolog.Nop())

	return &assignmentFixture{
		svc:           svc,
		assignments:   assignments,
		results:       results,
		notifications: notifications,
		content:       content,
		mathTestID:    mathID,
		commTestID:    commID,
	}
}

// ─── Tests ──────────────────────────────────────────────────────────

func TestCreateAssignments(t *testing.T) {
	fx := newAssignmentFixture(t)
	secondTest := uuid.New()

	created, err := fx.svc.Create(context.Background(), &model.CreateAssignmentRequest{
		TestIDs:    []uuid.UUID{fx.mathTestID, secondTest},
		TestType:   model.SubjectMatematicas,
		StudentIDs: []string{"s1", "s2"},
	}, "prof_math")
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, a := range created {
		assert.Equal(t, model.AssignmentStateAssigned, a.State)
		assert.Equal(t, model.SubjectMatematicas, a.Subject)
		assert.Equal(t, []string{"s1", "s2"}, a.StudentIDs)
		assert.Equal(t, "prof_math", a.AssignedBy)
		assert.WithinDuration(t, time.Now(), a.AssignedAt, time.Minute)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), a.DueAt, time.Minute)
	}
}

func TestCreateAssignmentsExplicitDates(t *testing.T) {
	fx := newAssignmentFixture(t)
	start := time.Date(2026, 4, 6, 8, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, 14)

	created, err := fx.svc.Create(context.Background(), &model.CreateAssignmentRequest{
		TestIDs:          []uuid.UUID{fx.mathTestID},
		TestType:         model.SubjectMatematicas,
		StudentIDs:       []string{"s1"},
		FechaAsignacion:  &start,
		FechaVencimiento: &due,
	}, "prof_math")
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.True(t, created[0].AssignedAt.Equal(start))
	assert.True(t, created[0].DueAt.Equal(due))
}

func TestCreateAssignmentsRejectsEmptyCohort(t *testing.T) {
	fx := newAssignmentFixture(t)

	_, err := fx.svc.Create(context.Background(), &model.CreateAssignmentRequest{
		TestIDs:    []uuid.UUID{fx.mathTestID},
		TestType:   model.SubjectMatematicas,
		StudentIDs: []string{},
	}, "prof_math")
	assert.ErrorIs(t, err, ErrEmptyCohort)
	assert.Empty(t, fx.assignments.entries)
}

func TestCreateAssignmentsRejectsEmptyTests(t *testing.T) {
	fx := newAssignmentFixture(t)

	_, err := fx.svc.Create(context.Background(), &model.CreateAssignmentRequest{
		TestIDs:    []uuid.UUID{},
		TestType:   model.SubjectMatematicas,
		StudentIDs: []string{"s1"},
	}, "prof_math")
	assert.ErrorIs(t, err, ErrNoTests)
}

func TestCreateAssignmentsRejectsUnknownSubject(t *testing.T) {
	fx := newAssignmentFixture(t)

	_, err := fx.svc.Create(context.Background(), &model.CreateAssignmentRequest{
		TestIDs:    []uuid.UUID{fx.mathTestID},
		TestType:   model.Subject("historia"),
		StudentIDs: []string{"s1"},
	}, "prof_math")
	assert.ErrorIs(t, err, ErrInvalidSubject)
}

func TestListForTeacherScopesBySubject(t *testing.T) {
	fx := newAssignmentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, &model.CreateAssignmentRequest{
		TestIDs: []uuid.UUID{fx.mathTestID}, TestType: model.SubjectMatematicas, StudentIDs: []string{"s1"},
	}, "prof_math")
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, &model.CreateAssignmentRequest{
		TestIDs: []uuid.UUID{fx.commTestID}, TestType: model.SubjectComunicacion, StudentIDs: []string{"s1"},
	}, "prof_both")
	require.NoError(t, err)

	mathOnly, err := fx.svc.ListForTeacher(ctx, "prof_math")
	require.NoError(t, err)
	require.Len(t, mathOnly, 1)
	assert.Equal(t, model.SubjectMatematicas, mathOnly[0].Subject)

	both, err := fx.svc.ListForTeacher(ctx, "prof_both")
	require.NoError(t, err)
	assert.Len(t, both, 2)

	none, err := fx.svc.ListForTeacher(ctx, "prof_none")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = fx.svc.ListForTeacher(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListForStudentAnnotatesEstado(t *testing.T) {
	fx := newAssignmentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, &model.CreateAssignmentRequest{
		TestIDs: []uuid.UUID{fx.mathTestID}, TestType: model.SubjectMatematicas, StudentIDs: []string{"s1", "s2"},
	}, "prof_math")
	require.NoError(t, err)

	views, err := fx.svc.ListForStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, model.EstadoPendiente, views[0].Estado)
	require.NotNil(t, views[0].Test)
	assert.Equal(t, fx.mathTestID, views[0].Test.ID)

	// A result flips the estado before any ledger mutation happens.
	require.NoError(t, fx.results.Create(ctx, &model.Result{
		StudentID: "s1", TestID: fx.mathTestID, Subject: model.SubjectMatematicas, Score: 80,
	}))

	views, err = fx.svc.ListForStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, model.EstadoCompletado, views[0].Estado)

	// An uninvolved student sees nothing.
	other, err := fx.svc.ListForStudent(ctx, "s3")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListForStudentToleratesDanglingTest(t *testing.T) {
	fx := newAssignmentFixture(t)
	ctx := context.Background()

	ghostTest := uuid.New()
	_, err := fx.svc.Create(ctx, &model.CreateAssignmentRequest{
		TestIDs: []uuid.UUID{ghostTest}, TestType: model.SubjectMatematicas, StudentIDs: []string{"s1"},
	}, "prof_math")
	require.NoError(t, err)

	views, err := fx.svc.ListForStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Test)
	assert.Equal(t, model.EstadoPendiente, views[0].Estado)
}

func TestBulkClearScopesBySubject(t *testing.T) {
	fx := newAssignmentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, &model.CreateAssignmentRequest{
		TestIDs: []uuid.UUID{fx.mathTestID}, TestType: model.SubjectMatematicas, StudentIDs: []string{"s1"},
	}, "prof_math")
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, &model.CreateAssignmentRequest{
		TestIDs: []uuid.UUID{fx.commTestID}, TestType: model.SubjectComunicacion, StudentIDs: []string{"s1"},
	}, "prof_both")
	require.NoError(t, err)

	require.NoError(t, fx.results.Create(ctx, &model.Result{
		StudentID: "s1", TestID: fx.mathTestID, Subject: model.SubjectMatematicas,
	}))
	require.NoError(t, fx.results.Create(ctx, &model.Result{
		StudentID: "s1", TestID: fx.commTestID, Subject: model.SubjectComunicacion,
	}))
	require.NoError(t, fx.notifications.Create(ctx, &model.Notification{
		Subject: model.SubjectMatematicas, StudentID: "s1", TestID: fx.mathTestID,
	}))

	// prof_math clears matematicas only; comunicacion survives.
	summary, err := fx.svc.BulkClear(ctx, "prof_math")
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Assignments)
	assert.Equal(t, int64(1), summary.Results)
	assert.Equal(t, int64(1), summary.Notifications)

	remaining, err := fx.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, model.SubjectComunicacion, remaining[0].Subject)
	require.Len(t, fx.results.rows, 1)
	assert.Equal(t, model.SubjectComunicacion, fx.results.rows[0].Subject)
	assert.Empty(t, fx.notifications.rows)
}

func TestBulkClearWithNoSubjectsIsNoop(t *testing.T) {
	fx := newAssignmentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, &model.CreateAssignmentRequest{
		TestIDs: []uuid.UUID{fx.mathTestID}, TestType: model.SubjectMatematicas, StudentIDs: []string{"s1"},
	}, "prof_math")
	require.NoError(t, err)

	summary, err := fx.svc.BulkClear(ctx, "prof_none")
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Assignments)
	assert.Len(t, fx.assignments.entries, 1)
}
