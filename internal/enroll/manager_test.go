package enroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GAURAV130105/attendance-system/internal/database"
	"github.com/GAURAV130105/attendance-system/internal/database/mock"
	"github.com/GAURAV130105/attendance-system/internal/extractor"
	"github.com/GAURAV130105/attendance-system/internal/recognize"
)

const encodingDim = 128

func axisEncoding(axis int, value float32) []float32 {
	v := make([]float32, encodingDim)
	v[axis] = value
	return v
}

type fixture struct {
	students  *mock.MockStudentRepo
	encodings *mock.MockEncodingRepo
	index     *database.EncodingIndex
	manager   *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	students := mock.NewMockStudentRepo()
	encodings := mock.NewMockEncodingRepo()
	index := database.NewEncodingIndex(encodingDim)

	matcher, err := recognize.NewMatcher(index, 0.5)
	if err != nil {
		t.Fatalf("matcher: %v", err)
	}

	ext := extractor.ExtractFunc(func(ctx context.Context, imageData []byte) ([]float32, error) {
		return axisEncoding(0, 1), nil
	})

	return &fixture{
		students:  students,
		encodings: encodings,
		index:     index,
		manager:   NewManager(students, encodings, index, matcher, ext),
	}
}

func (f *fixture) addStudent(t *testing.T, id string, revoked bool) {
	t.Helper()
	f.students.AddStudent(database.Student{
		StudentID:  id,
		FirstName:  "Jan",
		LastName:   "Novak",
		EnrolledAt: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Revoked:    revoked,
	})
}

func TestEnrollEncoding_DimensionValidation(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)

	_, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", []float32{1, 2, 3}, "")
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
	if f.index.Count() != 0 {
		t.Errorf("rejected encoding must not reach the index, count %d", f.index.Count())
	}
}

func TestEnrollEncoding_ExistingStudent(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)

	enc, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", axisEncoding(0, 1), "photos/s1.jpg")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	if enc.ID == 0 {
		t.Error("expected encoding to be assigned an ID on save")
	}
	if enc.ImagePath != "photos/s1.jpg" {
		t.Errorf("expected image path carried through, got %q", enc.ImagePath)
	}
	if f.index.Count() != 1 {
		t.Errorf("expected encoding in the index, count %d", f.index.Count())
	}
}

func TestEnrollEncoding_ImplicitStudentCreation(t *testing.T) {
	f := newFixture(t)

	if _, err := f.manager.EnrollEncoding(context.Background(), "S9", "Eva", "Svobodova", axisEncoding(0, 1), ""); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	s, err := f.students.Get(context.Background(), "S9")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if s == nil {
		t.Fatal("expected student created implicitly")
	}
	if s.FullName() != "Eva Svobodova" {
		t.Errorf("unexpected name %q", s.FullName())
	}
}

func TestEnrollEncoding_UnknownStudentWithoutName(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.EnrollEncoding(context.Background(), "S9", "", "", axisEncoding(0, 1), "")
	if !errors.Is(err, ErrUnknownStudent) {
		t.Errorf("expected ErrUnknownStudent, got %v", err)
	}
}

func TestEnrollEncoding_RevokedStudent(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", true)

	_, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", axisEncoding(0, 1), "")
	if !errors.Is(err, ErrStudentRevoked) {
		t.Errorf("expected ErrStudentRevoked, got %v", err)
	}
}

func TestEnrollEncoding_DuplicatePersonGuard(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)
	f.addStudent(t, "S2", false)

	if _, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", axisEncoding(0, 1), ""); err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}

	// Same face under a different ID is rejected.
	_, err := f.manager.EnrollEncoding(context.Background(), "S2", "", "", axisEncoding(0, 1), "")
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
	}
	if f.index.Count() != 1 {
		t.Errorf("rejected duplicate must not reach the index, count %d", f.index.Count())
	}
}

func TestEnrollEncoding_AdditionalSampleSameStudent(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)

	if _, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", axisEncoding(0, 1), ""); err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}

	// A near-identical sample for the same student is admitted.
	second := axisEncoding(0, 1)
	second[1] = 0.1
	if _, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", second, ""); err != nil {
		t.Fatalf("second sample rejected: %v", err)
	}
	if f.index.Count() != 2 {
		t.Errorf("expected both samples indexed, count %d", f.index.Count())
	}
}

func TestEnrollEncoding_PersistFailureLeavesIndexUnchanged(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)
	f.encodings.SaveError = errors.New("disk full")

	if _, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", axisEncoding(0, 1), ""); err == nil {
		t.Fatal("expected save error")
	}
	if f.index.Count() != 0 {
		t.Errorf("failed persist must leave the index empty, count %d", f.index.Count())
	}
}

func TestEnroll_ExtractionErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)

	failing := extractor.ExtractFunc(func(ctx context.Context, imageData []byte) ([]float32, error) {
		return nil, &extractor.ExtractionError{Reason: "multiple faces in image"}
	})
	f.manager.extractor = failing

	_, err := f.manager.Enroll(context.Background(), "S1", "", "", []byte("img"), "")
	var extErr *extractor.ExtractionError
	if !errors.As(err, &extErr) {
		t.Errorf("expected *ExtractionError, got %v", err)
	}
}

func TestReloadIndex(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)

	if _, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", axisEncoding(0, 1), ""); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	// Wipe the live index, then recover from storage.
	if err := f.index.Load(nil); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if f.index.Count() != 0 {
		t.Fatalf("expected empty index, count %d", f.index.Count())
	}

	n, err := f.manager.ReloadIndex(context.Background())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 encoding reloaded, got %d", n)
	}
}

func TestRevokeAndReinstate(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)

	if _, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", axisEncoding(0, 1), ""); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if err := f.manager.Revoke(context.Background(), "S1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if f.index.Count() != 0 {
		t.Errorf("revoked student's encodings must leave the index, count %d", f.index.Count())
	}

	s, err := f.students.Get(context.Background(), "S1")
	if err != nil || s == nil {
		t.Fatalf("get after revoke: %v, %v", s, err)
	}
	if !s.Revoked {
		t.Error("expected revocation flag set")
	}

	if err := f.manager.Reinstate(context.Background(), "S1"); err != nil {
		t.Fatalf("reinstate failed: %v", err)
	}
	if f.index.Count() != 1 {
		t.Errorf("reinstated student's encodings must return, count %d", f.index.Count())
	}
}

func TestRevoke_UnknownStudent(t *testing.T) {
	f := newFixture(t)

	if err := f.manager.Revoke(context.Background(), "NOBODY"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveEncoding(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)

	enc, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", axisEncoding(0, 1), "")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if err := f.manager.RemoveEncoding(context.Background(), enc.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if f.index.Count() != 0 {
		t.Errorf("expected index empty after removal, count %d", f.index.Count())
	}
}

func TestDeleteStudent(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "S1", false)

	if _, err := f.manager.EnrollEncoding(context.Background(), "S1", "", "", axisEncoding(0, 1), ""); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if err := f.manager.DeleteStudent(context.Background(), "S1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if f.index.Count() != 0 {
		t.Errorf("expected index empty after delete, count %d", f.index.Count())
	}

	s, err := f.students.Get(context.Background(), "S1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if s != nil {
		t.Error("expected student gone")
	}
}
