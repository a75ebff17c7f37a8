package database

import (
	"time"
)

// AttendanceStatus classifies a recorded attendance event.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusLate    AttendanceStatus = "LATE"
	StatusUnknown AttendanceStatus = "UNKNOWN"
)

// Student represents an enrolled person the system can recognize.
type Student struct {
	StudentID  string
	FirstName  string
	LastName   string
	EnrolledAt time.Time
	Revoked    bool
}

// FullName returns the display name of the student.
func (s Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StoredEncoding represents a face encoding stored in the database.
// A student may own several encodings; extra samples improve recall.
type StoredEncoding struct {
	ID        int64
	StudentID string
	Vector    []float32
	ImagePath string
	CreatedAt time.Time

	// EnrolledAt mirrors the owning student's enrollment date so the
	// in-memory index can break distance ties without a lookup.
	EnrolledAt time.Time
}

// Course represents a bounded session window in which attendance is
// meaningful. ScheduledStart/ScheduledEnd delimit eligibility; arrivals
// within GracePeriod after the start still count as PRESENT.
type Course struct {
	CourseID       string
	Name           string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	GracePeriod    time.Duration
}

// Contains reports whether t falls inside the course window.
func (c Course) Contains(t time.Time) bool {
	return !t.Before(c.ScheduledStart) && !t.After(c.ScheduledEnd)
}

// StatusAt classifies an observation time inside the course window.
func (c Course) StatusAt(t time.Time) AttendanceStatus {
	if !t.After(c.ScheduledStart.Add(c.GracePeriod)) {
		return StatusPresent
	}
	return StatusLate
}

// AttendanceRecord is the append-only result of a successful
// identification within a course session. CourseID is empty when the
// referenced course has been deleted (ON DELETE SET NULL).
type AttendanceRecord struct {
	ID         string
	StudentID  string
	CourseID   string
	ObservedAt time.Time
	Status     AttendanceStatus
	CreatedAt  time.Time
}
