package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

// uniqueViolation is the PostgreSQL error code raised when an insert
// conflicts with a unique constraint.
const uniqueViolation = "23505"

// AttendanceRepository provides PostgreSQL-backed access to the
// append-only attendance log.
type AttendanceRepository struct {
	pool *Pool
}

// NewAttendanceRepository creates a new PostgreSQL attendance repository.
func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Insert appends one attendance record. A conflict on the
// (student_id, course_id) uniqueness constraint is reported as
// database.ErrDuplicateRecord; callers treat it as the record already
// existing, not as a failure. The constraint is the backstop for the
// at-most-once guarantee across processes.
func (r *AttendanceRepository) Insert(ctx context.Context, rec database.AttendanceRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendance (id, student_id, course_id, observed_at, status)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
	`, rec.ID, rec.StudentID, rec.CourseID, rec.ObservedAt, string(rec.Status))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return database.ErrDuplicateRecord
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// Exists reports whether a record for the (student, course) pair is
// already present.
func (r *AttendanceRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM attendance WHERE student_id = $1 AND course_id = $2)",
		studentID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check attendance exists: %w", err)
	}
	return exists, nil
}

// ListByCourse returns all records for a course ordered by observation time.
func (r *AttendanceRepository) ListByCourse(ctx context.Context, courseID string) ([]database.AttendanceRecord, error) {
	query := `
		SELECT id, student_id, COALESCE(course_id, ''), observed_at, status, created_at
		FROM attendance
		WHERE course_id = $1
		ORDER BY observed_at
	`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("query attendance by course: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListByStudent returns all records for a student ordered by observation time.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]database.AttendanceRecord, error) {
	query := `
		SELECT id, student_id, COALESCE(course_id, ''), observed_at, status, created_at
		FROM attendance
		WHERE student_id = $1
		ORDER BY observed_at
	`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("query attendance by student: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]database.AttendanceRecord, error) {
	var records []database.AttendanceRecord
	for rows.Next() {
		var rec database.AttendanceRecord
		var status string
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.CourseID, &rec.ObservedAt, &status, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		rec.Status = database.AttendanceStatus(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance records: %w", err)
	}
	return records, nil
}
