package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

// CourseRepository provides PostgreSQL-backed course session storage.
type CourseRepository struct {
	pool *Pool
}

// NewCourseRepository creates a new PostgreSQL course repository.
func NewCourseRepository(pool *Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// CurrentSessions returns every course whose scheduled window contains
// the given timestamp.
func (r *CourseRepository) CurrentSessions(ctx context.Context, at time.Time) ([]database.Course, error) {
	query := `
		SELECT course_id, name, scheduled_start, scheduled_end, grace_period_seconds
		FROM courses
		WHERE scheduled_start <= $1 AND scheduled_end >= $1
		ORDER BY scheduled_start, course_id
	`

	rows, err := r.pool.Query(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("query current sessions: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// Create inserts a new course session.
func (r *CourseRepository) Create(ctx context.Context, c database.Course) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO courses (course_id, name, scheduled_start, scheduled_end, grace_period_seconds)
		VALUES ($1, $2, $3, $4, $5)
	`, c.CourseID, c.Name, c.ScheduledStart, c.ScheduledEnd, int(c.GracePeriod.Seconds()))
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

// List returns all courses ordered by scheduled start.
func (r *CourseRepository) List(ctx context.Context) ([]database.Course, error) {
	query := `
		SELECT course_id, name, scheduled_start, scheduled_end, grace_period_seconds
		FROM courses
		ORDER BY scheduled_start, course_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// Delete removes a course. Attendance rows keep their history; the
// course reference is cleared by ON DELETE SET NULL.
func (r *CourseRepository) Delete(ctx context.Context, courseID string) error {
	res, err := r.pool.Exec(ctx, "DELETE FROM courses WHERE course_id = $1", courseID)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func scanCourses(rows *sql.Rows) ([]database.Course, error) {
	var courses []database.Course
	for rows.Next() {
		var c database.Course
		var graceSeconds int
		if err := rows.Scan(&c.CourseID, &c.Name, &c.ScheduledStart, &c.ScheduledEnd, &graceSeconds); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		c.GracePeriod = time.Duration(graceSeconds) * time.Second
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, nil
}
