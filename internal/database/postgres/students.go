package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

// StudentRepository provides PostgreSQL-backed student storage.
type StudentRepository struct {
	pool *Pool
}

// NewStudentRepository creates a new PostgreSQL student repository.
func NewStudentRepository(pool *Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// Get retrieves a student by ID, returns nil if not found.
func (r *StudentRepository) Get(ctx context.Context, studentID string) (*database.Student, error) {
	query := `
		SELECT student_id, first_name, last_name, enrolled_at, revoked
		FROM students
		WHERE student_id = $1
	`

	var s database.Student
	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&s.StudentID,
		&s.FirstName,
		&s.LastName,
		&s.EnrolledAt,
		&s.Revoked,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query student: %w", err)
	}
	return &s, nil
}

// FindByName retrieves students whose normalized full name matches the
// given name. Normalization matches database.NormalizeName (lowercase,
// unaccented, dashes to spaces) so slugs match display names.
func (r *StudentRepository) FindByName(ctx context.Context, name string) ([]database.Student, error) {
	normalized := database.NormalizeName(name)

	query := `
		SELECT student_id, first_name, last_name, enrolled_at, revoked
		FROM students
		WHERE LOWER(REPLACE(unaccent(first_name || ' ' || last_name), '-', ' ')) = $1
		ORDER BY enrolled_at
	`

	rows, err := r.pool.Query(ctx, query, normalized)
	if err != nil {
		return nil, fmt.Errorf("query students by name: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// List returns all students ordered by enrollment date.
func (r *StudentRepository) List(ctx context.Context) ([]database.Student, error) {
	query := `
		SELECT student_id, first_name, last_name, enrolled_at, revoked
		FROM students
		ORDER BY enrolled_at, student_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s database.Student) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO students (student_id, first_name, last_name, enrolled_at, revoked)
		VALUES ($1, $2, $3, $4, $5)
	`, s.StudentID, s.FirstName, s.LastName, s.EnrolledAt, s.Revoked)
	if err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// SetRevoked toggles the soft revocation flag.
func (r *StudentRepository) SetRevoked(ctx context.Context, studentID string, revoked bool) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE students SET revoked = $2 WHERE student_id = $1
	`, studentID, revoked)
	if err != nil {
		return fmt.Errorf("update student revocation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete hard-deletes a student. Face encodings and attendance rows
// cascade via their foreign keys.
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	res, err := r.pool.Exec(ctx, "DELETE FROM students WHERE student_id = $1", studentID)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func scanStudents(rows *sql.Rows) ([]database.Student, error) {
	var students []database.Student
	for rows.Next() {
		var s database.Student
		if err := rows.Scan(&s.StudentID, &s.FirstName, &s.LastName, &s.EnrolledAt, &s.Revoked); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}
