package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/collegetimetable/scheduler-api/internal/models"
)

// CourseRepository manages persistence for courses and their ordered
// subject lists.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) execOrDB(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns courses matching filters along with total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	base := "FROM courses WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, *filter.Semester)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]bool{
		"name":       true,
		"semester":   true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, semester, num_batches, capacity, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// FindByID returns a course by id, without its subjects.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, name, semester, num_batches, capacity, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Detail loads a course plus its ordered subject list.
func (r *CourseRepository) Detail(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	const query = `
SELECT cs.subject_id, s.name AS subject_name, cs.position
FROM course_subjects cs
JOIN subjects s ON s.id = cs.subject_id
WHERE cs.course_id = $1
ORDER BY cs.position ASC`
	var refs []models.CourseSubjectRef
	if err := r.db.SelectContext(ctx, &refs, query, id); err != nil {
		return nil, fmt.Errorf("list course subjects: %w", err)
	}
	return &models.CourseDetail{Course: *course, Subjects: refs}, nil
}

// ListDetails loads the courses with the given ids (every course when
// ids is empty), each with its ordered subject list, the shape the
// timetable generator consumes directly.
func (r *CourseRepository) ListDetails(ctx context.Context, ids []string) ([]models.CourseDetail, error) {
	var courses []models.Course
	if len(ids) == 0 {
		const query = `SELECT id, name, semester, num_batches, capacity, created_at, updated_at FROM courses ORDER BY name ASC`
		if err := r.db.SelectContext(ctx, &courses, query); err != nil {
			return nil, fmt.Errorf("list all courses: %w", err)
		}
	} else {
		query, args, err := sqlx.In(`SELECT id, name, semester, num_batches, capacity, created_at, updated_at FROM courses WHERE id IN (?) ORDER BY name ASC`, ids)
		if err != nil {
			return nil, fmt.Errorf("build course id query: %w", err)
		}
		query = r.db.Rebind(query)
		if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
			return nil, fmt.Errorf("list courses by id: %w", err)
		}
	}

	details := make([]models.CourseDetail, 0, len(courses))
	for _, c := range courses {
		const subjectQuery = `
SELECT cs.subject_id, s.name AS subject_name, cs.position
FROM course_subjects cs
JOIN subjects s ON s.id = cs.subject_id
WHERE cs.course_id = $1
ORDER BY cs.position ASC`
		var refs []models.CourseSubjectRef
		if err := r.db.SelectContext(ctx, &refs, subjectQuery, c.ID); err != nil {
			return nil, fmt.Errorf("list course subjects for %s: %w", c.ID, err)
		}
		details = append(details, models.CourseDetail{Course: c, Subjects: refs})
	}
	return details, nil
}

// Create persists a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, name, semester, num_batches, capacity, created_at, updated_at)
		VALUES (:id, :name, :semester, :num_batches, :capacity, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies an existing course record.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET name = :name, semester = :semester, num_batches = :num_batches, capacity = :capacity, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course and its subject links.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// ReplaceSubjects replaces a course's ordered subject list: one DELETE
// followed by one INSERT per subject, run on exec when it is non-nil
// (e.g. a transaction) and on the repository's DB otherwise.
func (r *CourseRepository) ReplaceSubjects(ctx context.Context, exec sqlx.ExtContext, courseID string, subjectIDs []string) error {
	target := r.execOrDB(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM course_subjects WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("clear course subjects: %w", err)
	}
	const insert = `INSERT INTO course_subjects (id, course_id, subject_id, position) VALUES ($1, $2, $3, $4)`
	for i, subjectID := range subjectIDs {
		if _, err := target.ExecContext(ctx, insert, uuid.NewString(), courseID, subjectID, i); err != nil {
			return fmt.Errorf("insert course subject: %w", err)
		}
	}
	return nil
}
