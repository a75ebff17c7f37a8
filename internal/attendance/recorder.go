package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

// Recorder converts an identified student plus timing context into at
// most one durable attendance record per session.
//
// The at-most-once guarantee is enforced at two layers: a per-pair
// in-process lock around the check-then-insert sequence, and the
// storage uniqueness constraint on (student_id, course_id) as the
// backstop against multi-process races. A backstop conflict is
// indistinguishable from the record already existing.
type Recorder struct {
	sessions database.SessionReader
	records  database.AttendanceWriter
	locks    *pairLock
}

// NewRecorder creates a recorder over the given session and attendance
// stores.
func NewRecorder(sessions database.SessionReader, records database.AttendanceWriter) *Recorder {
	return &Recorder{
		sessions: sessions,
		records:  records,
		locks:    newPairLock(),
	}
}

// Record notes an observation of the identified student at the given
// time. Storage failures propagate as errors; every other path is a
// Result.
func (r *Recorder) Record(ctx context.Context, studentID string, at time.Time) (Result, error) {
	sessions, err := r.sessions.CurrentSessions(ctx, at)
	if err != nil {
		return Result{}, fmt.Errorf("look up eligible sessions: %w", err)
	}

	course, ok := eligibleSession(sessions, at)
	if !ok {
		return Result{Outcome: OutcomeOutsideSession, StudentID: studentID}, nil
	}

	status := course.StatusAt(at)

	// A caller may abandon the request freely up to this point; side
	// effects only happen past the lock.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	r.locks.lock(studentID, course.CourseID)
	defer r.locks.unlock(studentID, course.CourseID)

	exists, err := r.records.Exists(ctx, studentID, course.CourseID)
	if err != nil {
		return Result{}, fmt.Errorf("check existing attendance: %w", err)
	}
	if exists {
		return Result{
			Outcome:   OutcomeAlreadyRecorded,
			StudentID: studentID,
			CourseID:  course.CourseID,
		}, nil
	}

	rec := database.AttendanceRecord{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		CourseID:   course.CourseID,
		ObservedAt: at,
		Status:     status,
	}

	switch err := r.records.Insert(ctx, rec); {
	case err == nil:
		return Result{
			Outcome:   OutcomeRecorded,
			StudentID: studentID,
			CourseID:  course.CourseID,
			Status:    status,
		}, nil
	case errors.Is(err, database.ErrDuplicateRecord):
		// Another process won the race; same outcome as the fast path.
		return Result{
			Outcome:   OutcomeAlreadyRecorded,
			StudentID: studentID,
			CourseID:  course.CourseID,
		}, nil
	default:
		return Result{}, fmt.Errorf("insert attendance: %w", err)
	}
}

// eligibleSession picks the session to record against when several
// windows overlap: the most recently started one, with the course ID
// as the final tie-break. Sessions are expected sorted by start time.
func eligibleSession(sessions []database.Course, at time.Time) (database.Course, bool) {
	var chosen database.Course
	var found bool
	for _, c := range sessions {
		if !c.Contains(at) {
			continue
		}
		if !found || c.ScheduledStart.After(chosen.ScheduledStart) ||
			(c.ScheduledStart.Equal(chosen.ScheduledStart) && c.CourseID < chosen.CourseID) {
			chosen = c
			found = true
		}
	}
	return chosen, found
}
