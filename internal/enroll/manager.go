// Package enroll validates and admits new face encodings for students,
// keeping persisted storage and the live index consistent.
package enroll

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/GAURAV130105/attendance-system/internal/database"
	"github.com/GAURAV130105/attendance-system/internal/extractor"
	"github.com/GAURAV130105/attendance-system/internal/recognize"
)

var (
	// ErrInvalidEncoding is returned for vectors with the wrong
	// dimensionality. Caller input error, not retried automatically.
	ErrInvalidEncoding = errors.New("invalid face encoding")

	// ErrUnknownStudent is returned when enrolling an encoding for a
	// student that does not exist and no name was given to create one.
	ErrUnknownStudent = errors.New("unknown student")

	// ErrStudentRevoked is returned when enrolling for a revoked student.
	ErrStudentRevoked = errors.New("student is revoked")

	// ErrAlreadyEnrolled is returned when the new encoding matches a
	// different, already-enrolled student within the match threshold.
	ErrAlreadyEnrolled = errors.New("face already enrolled")

	// ErrIndexOutOfSync is returned together with a persisted encoding
	// when the live index could not be updated after the write. The
	// system is transiently inconsistent until the next reload; callers
	// should retry the reload, not the enrollment.
	ErrIndexOutOfSync = errors.New("encoding persisted but index update failed")
)

// Manager admits new encodings. Writes go to persistent storage first
// and to the live index second, so the index never exposes a match
// that could vanish on restart.
type Manager struct {
	students  database.StudentWriter
	encodings database.EncodingWriter
	index     *database.EncodingIndex
	matcher   *recognize.Matcher
	extractor extractor.Extractor
}

// NewManager creates an enrollment manager. The matcher is used for
// the duplicate-person guard and shares the live index.
func NewManager(
	students database.StudentWriter,
	encodings database.EncodingWriter,
	index *database.EncodingIndex,
	matcher *recognize.Matcher,
	ext extractor.Extractor,
) *Manager {
	return &Manager{
		students:  students,
		encodings: encodings,
		index:     index,
		matcher:   matcher,
		extractor: ext,
	}
}

// Enroll extracts the face encoding from the image and admits it for
// the student, creating the student when names are supplied. imagePath
// is an optional provenance pointer to the source image.
func (m *Manager) Enroll(ctx context.Context, studentID, firstName, lastName string, imageData []byte, imagePath string) (*database.StoredEncoding, error) {
	vector, err := m.extractor.Extract(ctx, imageData)
	if err != nil {
		return nil, err
	}
	return m.EnrollEncoding(ctx, studentID, firstName, lastName, vector, imagePath)
}

// EnrollEncoding admits an already-extracted encoding.
//
// The student is created implicitly when it does not exist and a name
// was supplied; otherwise enrollment fails with ErrUnknownStudent. An
// encoding that matches a different enrolled student within the match
// threshold is rejected with ErrAlreadyEnrolled, mirroring the
// duplicate-registration guard of the original deployment.
func (m *Manager) EnrollEncoding(ctx context.Context, studentID, firstName, lastName string, vector []float32, imagePath string) (*database.StoredEncoding, error) {
	if len(vector) != m.index.Dim() {
		return nil, fmt.Errorf("%w: got dimension %d, want %d", ErrInvalidEncoding, len(vector), m.index.Dim())
	}

	student, err := m.students.Get(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("look up student: %w", err)
	}
	switch {
	case student == nil && firstName == "" && lastName == "":
		return nil, fmt.Errorf("%w: %s", ErrUnknownStudent, studentID)
	case student != nil && student.Revoked:
		return nil, fmt.Errorf("%w: %s", ErrStudentRevoked, studentID)
	case student == nil:
		created := database.Student{
			StudentID:  studentID,
			FirstName:  firstName,
			LastName:   lastName,
			EnrolledAt: time.Now().UTC(),
		}
		if err := m.students.Create(ctx, created); err != nil {
			return nil, fmt.Errorf("create student: %w", err)
		}
	}

	// Duplicate-person guard: the same face must not end up enrolled
	// under two IDs. Additional samples for the same student pass.
	match, err := m.matcher.Search(vector)
	if err != nil {
		return nil, err
	}
	if match.Matched && match.StudentID != studentID {
		return nil, fmt.Errorf("%w: encoding matches student %s (distance %.4f)",
			ErrAlreadyEnrolled, match.StudentID, match.Distance)
	}

	enc := &database.StoredEncoding{
		StudentID: studentID,
		Vector:    vector,
		ImagePath: imagePath,
	}
	if err := m.encodings.Save(ctx, enc); err != nil {
		return nil, fmt.Errorf("persist encoding: %w", err)
	}

	if err := m.index.Insert(*enc); err != nil {
		log.Printf("enroll: encoding %d persisted but index insert failed: %v", enc.ID, err)
		return enc, fmt.Errorf("%w: %v", ErrIndexOutOfSync, err)
	}

	return enc, nil
}

// ReloadIndex rebuilds the live index from persisted encodings. Used
// at startup and to recover from an out-of-sync index.
func (m *Manager) ReloadIndex(ctx context.Context) (int, error) {
	encodings, err := m.encodings.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load encodings: %w", err)
	}
	if err := m.index.Load(encodings); err != nil {
		return m.index.Count(), fmt.Errorf("rebuild index: %w", err)
	}
	return m.index.Count(), nil
}

// Revoke soft-revokes a student and removes its encodings from the
// live index. Attendance history is untouched.
func (m *Manager) Revoke(ctx context.Context, studentID string) error {
	if err := m.students.SetRevoked(ctx, studentID, true); err != nil {
		return fmt.Errorf("revoke student: %w", err)
	}
	m.index.RemoveStudent(studentID)
	return nil
}

// Reinstate clears the revocation flag and restores the student's
// encodings into the live index.
func (m *Manager) Reinstate(ctx context.Context, studentID string) error {
	if err := m.students.SetRevoked(ctx, studentID, false); err != nil {
		return fmt.Errorf("reinstate student: %w", err)
	}
	if _, err := m.ReloadIndex(ctx); err != nil {
		return err
	}
	return nil
}

// RemoveEncoding deletes a single encoding from storage and the index.
func (m *Manager) RemoveEncoding(ctx context.Context, encodingID int64) error {
	if err := m.encodings.Delete(ctx, encodingID); err != nil {
		return fmt.Errorf("delete encoding: %w", err)
	}
	m.index.Remove(encodingID)
	return nil
}

// DeleteStudent hard-deletes a student. Encodings and attendance
// history cascade in storage; the index drops the student's encodings.
func (m *Manager) DeleteStudent(ctx context.Context, studentID string) error {
	if err := m.students.Delete(ctx, studentID); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	m.index.RemoveStudent(studentID)
	return nil
}
