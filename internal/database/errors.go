package database

import "errors"

var (
	// ErrDuplicateRecord is returned when an attendance insert hits the
	// UNIQUE(student_id, course_id) constraint. Callers treat it as the
	// record already existing, never as a failure.
	ErrDuplicateRecord = errors.New("attendance record already exists")

	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")
)
