// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

// MockStudentRepo is a mock implementation of database.StudentWriter.
type MockStudentRepo struct {
	mu       sync.RWMutex
	students map[string]database.Student

	// Error injection
	GetError    error
	CreateError error
	UpdateError error
	DeleteError error
}

// NewMockStudentRepo creates a new mock student repository.
func NewMockStudentRepo() *MockStudentRepo {
	return &MockStudentRepo{students: make(map[string]database.Student)}
}

// AddStudent seeds the mock store.
func (m *MockStudentRepo) AddStudent(s database.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[s.StudentID] = s
}

// Get retrieves a student by ID, returns nil if not found.
func (m *MockStudentRepo) Get(ctx context.Context, studentID string) (*database.Student, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.students[studentID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// FindByName retrieves students whose normalized name matches.
func (m *MockStudentRepo) FindByName(ctx context.Context, name string) ([]database.Student, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	normalized := database.NormalizeName(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []database.Student
	for _, s := range m.students {
		if database.NormalizeName(s.FullName()) == normalized {
			out = append(out, s)
		}
	}
	sortStudents(out)
	return out, nil
}

// List returns all students ordered by enrollment date.
func (m *MockStudentRepo) List(ctx context.Context) ([]database.Student, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	sortStudents(out)
	return out, nil
}

// Create inserts a new student.
func (m *MockStudentRepo) Create(ctx context.Context, s database.Student) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[s.StudentID] = s
	return nil
}

// SetRevoked toggles the soft revocation flag.
func (m *MockStudentRepo) SetRevoked(ctx context.Context, studentID string, revoked bool) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[studentID]
	if !ok {
		return database.ErrNotFound
	}
	s.Revoked = revoked
	m.students[studentID] = s
	return nil
}

// Delete hard-deletes a student.
func (m *MockStudentRepo) Delete(ctx context.Context, studentID string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[studentID]; !ok {
		return database.ErrNotFound
	}
	delete(m.students, studentID)
	return nil
}

func sortStudents(students []database.Student) {
	sort.Slice(students, func(i, j int) bool {
		if !students[i].EnrolledAt.Equal(students[j].EnrolledAt) {
			return students[i].EnrolledAt.Before(students[j].EnrolledAt)
		}
		return students[i].StudentID < students[j].StudentID
	})
}

// MockEncodingRepo is a mock implementation of database.EncodingWriter.
type MockEncodingRepo struct {
	mu        sync.RWMutex
	nextID    int64
	encodings map[int64]database.StoredEncoding

	// Error injection
	AllError  error
	SaveError error
}

// NewMockEncodingRepo creates a new mock encoding repository.
func NewMockEncodingRepo() *MockEncodingRepo {
	return &MockEncodingRepo{encodings: make(map[int64]database.StoredEncoding)}
}

// All returns every stored encoding.
func (m *MockEncodingRepo) All(ctx context.Context) ([]database.StoredEncoding, error) {
	if m.AllError != nil {
		return nil, m.AllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.StoredEncoding, 0, len(m.encodings))
	for _, enc := range m.encodings {
		out = append(out, enc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CountByStudent returns how many encodings a student owns.
func (m *MockEncodingRepo) CountByStudent(ctx context.Context, studentID string) (int, error) {
	if m.AllError != nil {
		return 0, m.AllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int
	for _, enc := range m.encodings {
		if enc.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

// Save inserts a new encoding and assigns its ID.
func (m *MockEncodingRepo) Save(ctx context.Context, enc *database.StoredEncoding) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	enc.ID = m.nextID
	if enc.CreatedAt.IsZero() {
		enc.CreatedAt = time.Now()
	}
	m.encodings[enc.ID] = *enc
	return nil
}

// Delete removes a single encoding.
func (m *MockEncodingRepo) Delete(ctx context.Context, encodingID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.encodings[encodingID]; !ok {
		return database.ErrNotFound
	}
	delete(m.encodings, encodingID)
	return nil
}

// DeleteByStudent removes all encodings owned by a student.
func (m *MockEncodingRepo) DeleteByStudent(ctx context.Context, studentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int
	for id, enc := range m.encodings {
		if enc.StudentID == studentID {
			delete(m.encodings, id)
			removed++
		}
	}
	return removed, nil
}

// MockAttendanceRepo is a mock implementation of database.AttendanceWriter.
// Uniqueness on (student, course) is enforced the same way the real
// backend does, so concurrency tests exercise the duplicate path.
type MockAttendanceRepo struct {
	mu      sync.RWMutex
	records map[string]database.AttendanceRecord // key: studentID + "\x00" + courseID

	// Error injection
	InsertError error
	ExistsError error

	// InsertDelay, when set, is how long Insert sleeps while holding no
	// lock, widening race windows in concurrency tests.
	InsertDelay time.Duration
}

// NewMockAttendanceRepo creates a new mock attendance repository.
func NewMockAttendanceRepo() *MockAttendanceRepo {
	return &MockAttendanceRepo{records: make(map[string]database.AttendanceRecord)}
}

func pairKey(studentID, courseID string) string {
	return studentID + "\x00" + courseID
}

// Insert appends one record, returning ErrDuplicateRecord on conflict.
func (m *MockAttendanceRepo) Insert(ctx context.Context, rec database.AttendanceRecord) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.InsertDelay > 0 {
		time.Sleep(m.InsertDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(rec.StudentID, rec.CourseID)
	if _, ok := m.records[key]; ok {
		return database.ErrDuplicateRecord
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.records[key] = rec
	return nil
}

// Exists reports whether a record for the pair is present.
func (m *MockAttendanceRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	if m.ExistsError != nil {
		return false, m.ExistsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[pairKey(studentID, courseID)]
	return ok, nil
}

// ListByCourse returns all records for a course ordered by time.
func (m *MockAttendanceRepo) ListByCourse(ctx context.Context, courseID string) ([]database.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []database.AttendanceRecord
	for _, rec := range m.records {
		if rec.CourseID == courseID {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

// ListByStudent returns all records for a student ordered by time.
func (m *MockAttendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]database.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []database.AttendanceRecord
	for _, rec := range m.records {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

// Count returns the total number of stored records.
func (m *MockAttendanceRepo) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func sortRecords(records []database.AttendanceRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ObservedAt.Before(records[j].ObservedAt)
	})
}

// MockSessionRepo is a mock implementation of database.SessionReader.
type MockSessionRepo struct {
	mu      sync.RWMutex
	courses []database.Course

	// Error injection
	CurrentError error
}

// NewMockSessionRepo creates a new mock session repository.
func NewMockSessionRepo(courses ...database.Course) *MockSessionRepo {
	return &MockSessionRepo{courses: courses}
}

// AddCourse seeds the mock store.
func (m *MockSessionRepo) AddCourse(c database.Course) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = append(m.courses, c)
}

// CurrentSessions returns courses whose window contains the timestamp.
func (m *MockSessionRepo) CurrentSessions(ctx context.Context, at time.Time) ([]database.Course, error) {
	if m.CurrentError != nil {
		return nil, m.CurrentError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []database.Course
	for _, c := range m.courses {
		if c.Contains(at) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledStart.Equal(out[j].ScheduledStart) {
			return out[i].ScheduledStart.Before(out[j].ScheduledStart)
		}
		return out[i].CourseID < out[j].CourseID
	})
	return out, nil
}
