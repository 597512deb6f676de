package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/collegetimetable/scheduler-api/internal/models"
)

type mockTeacherRepo struct {
	items       map[string]*models.Teacher
	nameIndex   map[string]string
	subjects    map[string][]string
	listResult  []models.Teacher
	listTotal   int
	listErr     error
	deactivated []string
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	if owner, ok := m.nameIndex[name]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[string]*models.Teacher)
	}
	if teacher.ID == "" {
		teacher.ID = "generated"
	}
	now := time.Now()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[string]*models.Teacher)
	}
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	if t, ok := m.items[id]; ok {
		t.Active = false
	}
	return nil
}

func (m *mockTeacherRepo) ReplaceSubjects(ctx context.Context, exec sqlx.ExtContext, teacherID string, subjectIDs []string) error {
	if m.subjects == nil {
		m.subjects = make(map[string][]string)
	}
	m.subjects[teacherID] = subjectIDs
	return nil
}

func newTeacherServiceFixture(t *testing.T, repo *mockTeacherRepo) *TeacherService {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	mock.MatchExpectationsInOrder(false)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	return NewTeacherService(repo, tx, validator.New(), zap.NewNop())
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{}
	service := newTeacherServiceFixture(t, repo)

	teacher, err := service.Create(context.Background(), CreateTeacherRequest{
		Name:        "Teacher One",
		FacultyType: "PERMANENT",
		SubjectIDs:  []string{"subj-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Teacher One", teacher.Name)
	assert.True(t, teacher.Active)
	assert.Len(t, repo.items, 1)
	assert.Equal(t, []string{"subj-1"}, repo.subjects[teacher.ID])
}

func TestTeacherServiceCreateDuplicateName(t *testing.T) {
	repo := &mockTeacherRepo{nameIndex: map[string]string{"Teacher One": "another"}}
	service := NewTeacherService(repo, noopTxProvider{}, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateTeacherRequest{
		Name:        "Teacher One",
		FacultyType: "PERMANENT",
	})
	require.Error(t, err)
}

func TestTeacherServiceUpdate(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			"t1": {ID: "t1", Name: "Teacher One", FacultyType: models.FacultyTypePermanent, Active: true},
		},
	}
	service := newTeacherServiceFixture(t, repo)

	active := true
	updated, err := service.Update(context.Background(), "t1", UpdateTeacherRequest{
		Name:        "Teacher Updated",
		FacultyType: "VISITING",
		Active:      &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "Teacher Updated", updated.Name)
	assert.Equal(t, models.FacultyTypeVisiting, updated.FacultyType)
}

func TestTeacherServiceDeactivate(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			"t1": {ID: "t1", Name: "Teacher One", FacultyType: models.FacultyTypePermanent, Active: true},
		},
	}
	service := NewTeacherService(repo, noopTxProvider{}, validator.New(), zap.NewNop())

	err := service.Deactivate(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, repo.deactivated)
}
