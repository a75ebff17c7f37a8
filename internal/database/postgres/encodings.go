package postgres

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

// EncodingRepository provides PostgreSQL-backed face encoding storage.
// Vectors are stored in a pgvector column sized to the deployment
// dimensionality.
type EncodingRepository struct {
	pool *Pool
}

// NewEncodingRepository creates a new PostgreSQL encoding repository.
func NewEncodingRepository(pool *Pool) *EncodingRepository {
	return &EncodingRepository{pool: pool}
}

// All returns every encoding belonging to a non-revoked student. The
// owning student's enrollment date rides along so the in-memory index
// can break distance ties deterministically.
func (r *EncodingRepository) All(ctx context.Context) ([]database.StoredEncoding, error) {
	query := `
		SELECT e.id, e.student_id, e.face_vector, COALESCE(e.image_path, ''), e.created_at, s.enrolled_at
		FROM face_encodings e
		JOIN students s ON s.student_id = e.student_id
		WHERE NOT s.revoked
		ORDER BY e.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query encodings: %w", err)
	}
	defer rows.Close()

	var encodings []database.StoredEncoding
	for rows.Next() {
		var enc database.StoredEncoding
		var vec pgvector.Vector
		if err := rows.Scan(&enc.ID, &enc.StudentID, &vec, &enc.ImagePath, &enc.CreatedAt, &enc.EnrolledAt); err != nil {
			return nil, fmt.Errorf("scan encoding: %w", err)
		}
		enc.Vector = vec.Slice()
		encodings = append(encodings, enc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate encodings: %w", err)
	}
	return encodings, nil
}

// CountByStudent returns how many encodings a student owns.
func (r *EncodingRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM face_encodings WHERE student_id = $1", studentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count encodings: %w", err)
	}
	return count, nil
}

// Save inserts a new encoding and fills in its generated ID and the
// owning student's enrollment date.
func (r *EncodingRepository) Save(ctx context.Context, enc *database.StoredEncoding) error {
	vec := pgvector.NewVector(enc.Vector)

	err := r.pool.QueryRow(ctx, `
		INSERT INTO face_encodings (student_id, face_vector, image_path)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, created_at,
			(SELECT enrolled_at FROM students WHERE student_id = $1)
	`, enc.StudentID, vec, enc.ImagePath).Scan(&enc.ID, &enc.CreatedAt, &enc.EnrolledAt)
	if err != nil {
		return fmt.Errorf("insert encoding: %w", err)
	}
	return nil
}

// Delete removes a single encoding.
func (r *EncodingRepository) Delete(ctx context.Context, encodingID int64) error {
	res, err := r.pool.Exec(ctx, "DELETE FROM face_encodings WHERE id = $1", encodingID)
	if err != nil {
		return fmt.Errorf("delete encoding: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// DeleteByStudent removes all encodings owned by a student.
func (r *EncodingRepository) DeleteByStudent(ctx context.Context, studentID string) (int, error) {
	res, err := r.pool.Exec(ctx, "DELETE FROM face_encodings WHERE student_id = $1", studentID)
	if err != nil {
		return 0, fmt.Errorf("delete encodings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted encodings: %w", err)
	}
	return int(n), nil
}
