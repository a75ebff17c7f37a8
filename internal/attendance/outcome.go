package attendance

import "github.com/GAURAV130105/attendance-system/internal/database"

// Outcome names what a capture request produced. All values are
// expected, frequent results and therefore never surface as errors.
type Outcome string

const (
	// OutcomeRecorded means a new attendance record was written.
	OutcomeRecorded Outcome = "recorded"

	// OutcomeAlreadyRecorded means a record for this student and
	// session already existed. Capturing the same person twice in one
	// session is normal and must not fail loudly nor duplicate rows.
	OutcomeAlreadyRecorded Outcome = "already_recorded"

	// OutcomeOutsideSession means the student was identified but no
	// session window contains the observation time.
	OutcomeOutsideSession Outcome = "outside_session"

	// OutcomeUnidentified means no enrolled student matched within the
	// threshold.
	OutcomeUnidentified Outcome = "unidentified"

	// OutcomeExtractionFailed means no usable encoding could be
	// produced from the image; the caller retries with a new capture.
	OutcomeExtractionFailed Outcome = "extraction_failed"
)

// Result describes the outcome of a capture request. Unidentified
// results deliberately omit which enrolled identity came closest.
type Result struct {
	Outcome Outcome `json:"outcome"`

	// StudentID and CourseID are set for recorded and already-recorded
	// outcomes, and StudentID alone for outside-session ones.
	StudentID string `json:"student_id,omitempty"`
	CourseID  string `json:"course_id,omitempty"`

	// Status is the classification written (or previously written) for
	// the session.
	Status database.AttendanceStatus `json:"status,omitempty"`

	// Distance is the match distance for identified captures.
	Distance float64 `json:"distance,omitempty"`

	// Reason carries the extraction failure detail.
	Reason string `json:"reason,omitempty"`
}
