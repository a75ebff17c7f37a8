package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

// Student is a row from the legacy students table. The legacy schema
// has no enrollment timestamp; importers assign one.
type Student struct {
	StudentID string
	FirstName string
	LastName  string
}

// Encoding is a row from the legacy face_encodings table. The vector
// is stored as a JSON array of floats in a text column.
type Encoding struct {
	StudentID string
	Vector    []float32
	ImagePath string
}

// Students returns every row from the legacy students table.
func (p *Pool) Students(ctx context.Context) ([]Student, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT student_id, first_name, last_name FROM students ORDER BY student_id")
	if err != nil {
		return nil, fmt.Errorf("query legacy students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.StudentID, &s.FirstName, &s.LastName); err != nil {
			return nil, fmt.Errorf("scan legacy student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy students: %w", err)
	}
	return students, nil
}

// Encodings returns every row from the legacy face_encodings table,
// decoding the JSON-serialized vectors.
func (p *Pool) Encodings(ctx context.Context) ([]Encoding, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT student_id, face_vector, COALESCE(image_path, '') FROM face_encodings ORDER BY student_id")
	if err != nil {
		return nil, fmt.Errorf("query legacy encodings: %w", err)
	}
	defer rows.Close()

	var encodings []Encoding
	for rows.Next() {
		var enc Encoding
		var raw []byte
		if err := rows.Scan(&enc.StudentID, &raw, &enc.ImagePath); err != nil {
			return nil, fmt.Errorf("scan legacy encoding: %w", err)
		}
		vec, err := DecodeVector(raw)
		if err != nil {
			return nil, fmt.Errorf("encoding for student %s: %w", enc.StudentID, err)
		}
		enc.Vector = vec
		encodings = append(encodings, enc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy encodings: %w", err)
	}
	return encodings, nil
}

// DecodeVector parses a legacy JSON-serialized face vector. The legacy
// backend wrote float64 JSON arrays; precision narrows to float32,
// which is what the matching pipeline uses throughout.
func DecodeVector(raw []byte) ([]float32, error) {
	var values []float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode face vector JSON: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("face vector is empty")
	}

	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v)
	}
	return vec, nil
}

// ToStored converts a legacy encoding into the current stored form.
func (e Encoding) ToStored(enrolledAt time.Time) database.StoredEncoding {
	return database.StoredEncoding{
		StudentID:  e.StudentID,
		Vector:     e.Vector,
		ImagePath:  e.ImagePath,
		EnrolledAt: enrolledAt,
	}
}
