// Package recognize decides which enrolled student, if any, a query
// encoding belongs to.
package recognize

import (
	"fmt"

	"github.com/GAURAV130105/attendance-system/internal/database"
)

// Match is the result of a nearest-neighbor search. "No match" is a
// first-class value, not an error: rejections are frequent, expected
// outcomes.
type Match struct {
	// Matched reports whether a candidate passed the threshold.
	Matched bool

	// StudentID and Distance identify the accepted candidate. Only
	// meaningful when Matched is true.
	StudentID string
	Distance  float64

	// BestDistance is the distance to the nearest candidate regardless
	// of the threshold. Retained for diagnostics; callers must not
	// surface which identity it belonged to.
	BestDistance float64
}

// Matcher searches the encoding index under a rejection threshold.
type Matcher struct {
	index     *database.EncodingIndex
	threshold float64
}

// NewMatcher creates a matcher over the given index. The threshold is
// the maximum Euclidean distance at which a candidate is accepted; the
// rule is inclusive, so a candidate at exactly the threshold matches.
func NewMatcher(index *database.EncodingIndex, threshold float64) (*Matcher, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("match threshold must be non-negative, got %v", threshold)
	}
	return &Matcher{index: index, threshold: threshold}, nil
}

// Threshold returns the configured rejection threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Search finds the best-matching student for the query encoding.
// When several encodings sit at floating-point equality of the minimal
// distance, the one whose owner enrolled earliest wins, which keeps
// results reproducible. Ties within a single student are
// interchangeable since only the identity matters.
func (m *Matcher) Search(query []float32) (Match, error) {
	candidates, best, err := m.index.Nearest(query)
	if err != nil {
		return Match{}, err
	}

	if len(candidates) == 0 || best > m.threshold {
		return Match{Matched: false, BestDistance: best}, nil
	}

	chosen := candidates[0]
	for _, c := range candidates[1:] {
		if c.EnrolledAt.Before(chosen.EnrolledAt) {
			chosen = c
		}
	}

	return Match{
		Matched:      true,
		StudentID:    chosen.StudentID,
		Distance:     chosen.Distance,
		BestDistance: best,
	}, nil
}
