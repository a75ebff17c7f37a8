package database

import (
	"context"
	"time"
)

// StudentReader provides read-only access to enrolled students.
type StudentReader interface {
	// Get retrieves a student by ID, returns nil if not found
	Get(ctx context.Context, studentID string) (*Student, error)
	// FindByName retrieves students whose normalized name matches the
	// given name (lowercase, no diacritics, dashes to spaces)
	FindByName(ctx context.Context, name string) ([]Student, error)
	// List returns all students ordered by enrollment date
	List(ctx context.Context) ([]Student, error)
}

// StudentWriter provides write access to students.
type StudentWriter interface {
	StudentReader

	// Create inserts a new student
	Create(ctx context.Context, student Student) error
	// SetRevoked toggles the soft revocation flag
	SetRevoked(ctx context.Context, studentID string, revoked bool) error
	// Delete hard-deletes a student; encodings and attendance history
	// cascade with it
	Delete(ctx context.Context, studentID string) error
}

// EncodingReader provides read-only access to face encodings.
type EncodingReader interface {
	// All returns every encoding belonging to a non-revoked student,
	// with EnrolledAt populated from the owning student row
	All(ctx context.Context) ([]StoredEncoding, error)
	// CountByStudent returns how many encodings a student owns
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

// EncodingWriter provides write access to face encodings.
type EncodingWriter interface {
	EncodingReader

	// Save inserts a new encoding and fills in its generated ID
	Save(ctx context.Context, enc *StoredEncoding) error
	// Delete removes a single encoding
	Delete(ctx context.Context, encodingID int64) error
	// DeleteByStudent removes all encodings owned by a student and
	// returns how many were removed
	DeleteByStudent(ctx context.Context, studentID string) (int, error)
}

// AttendanceWriter provides access to the append-only attendance log.
type AttendanceWriter interface {
	// Insert appends one attendance record. Returns ErrDuplicateRecord
	// when a record for the same (student, course) pair already exists;
	// the uniqueness constraint is the multi-process backstop for the
	// at-most-once guarantee.
	Insert(ctx context.Context, rec AttendanceRecord) error
	// Exists reports whether a record for the pair is already present
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	// ListByCourse returns all records for a course ordered by time
	ListByCourse(ctx context.Context, courseID string) ([]AttendanceRecord, error)
	// ListByStudent returns all records for a student ordered by time
	ListByStudent(ctx context.Context, studentID string) ([]AttendanceRecord, error)
}

// SessionReader looks up which course sessions are eligible at a point
// in time.
type SessionReader interface {
	// CurrentSessions returns every course whose scheduled window
	// contains the given timestamp
	CurrentSessions(ctx context.Context, at time.Time) ([]Course, error)
}

// CourseWriter provides write access to course sessions.
type CourseWriter interface {
	SessionReader

	// Create inserts a new course session
	Create(ctx context.Context, course Course) error
	// List returns all courses ordered by scheduled start
	List(ctx context.Context) ([]Course, error)
	// Delete removes a course; attendance rows that reference it keep
	// their history with the course reference cleared
	Delete(ctx context.Context, courseID string) error
}
