package database

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// ErrDimensionMismatch is returned when a vector's length differs from
// the index dimensionality. This is a deployment configuration bug, not
// a recoverable input error.
var ErrDimensionMismatch = errors.New("encoding dimension mismatch")

// Candidate is a single nearest-neighbor result from the index.
type Candidate struct {
	EncodingID int64
	StudentID  string
	EnrolledAt time.Time
	Distance   float64 // Euclidean distance to the query
}

// distanceTieEpsilon bounds the squared-distance gap under which two
// candidates are considered equally near.
const distanceTieEpsilon = 1e-9

// indexEntry is one encoding held by the index. The vector is copied on
// insert and never handed back out, so concurrent readers can never
// observe a torn or mutated vector.
type indexEntry struct {
	encodingID int64
	studentID  string
	enrolledAt time.Time
	vector     []float32
}

// EncodingIndex holds the current queryable set of face encodings in
// memory. Reads and writes may run concurrently; an insert completing
// during an in-flight search may or may not be visible to that search,
// but is visible to any search that starts after Insert returns.
type EncodingIndex struct {
	mu      sync.RWMutex
	dim     int
	entries map[int64]*indexEntry
	ann     *HNSWIndex // optional accelerator, nil when disabled
}

// NewEncodingIndex creates an empty index for vectors of length dim.
func NewEncodingIndex(dim int) *EncodingIndex {
	return &EncodingIndex{
		dim:     dim,
		entries: make(map[int64]*indexEntry),
	}
}

// EnableHNSW attaches an approximate-nearest-neighbor accelerator to
// the index. Exact distances are always recomputed against the
// authoritative entries, so the accelerator only narrows candidates.
func (x *EncodingIndex) EnableHNSW() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.ann = NewHNSWIndex()
	x.ann.Build(x.snapshotLocked())
}

// Dim returns the fixed vector dimensionality of the index.
func (x *EncodingIndex) Dim() int {
	return x.dim
}

// Count returns the number of encodings currently in the index.
func (x *EncodingIndex) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Load bulk-initializes the index from persisted encodings, replacing
// any previous contents. Encodings with a wrong dimensionality are
// skipped and reported in the returned error after the load completes.
func (x *EncodingIndex) Load(encodings []StoredEncoding) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.entries = make(map[int64]*indexEntry, len(encodings))
	var skipped int
	for i := range encodings {
		enc := &encodings[i]
		if len(enc.Vector) != x.dim {
			skipped++
			continue
		}
		x.entries[enc.ID] = &indexEntry{
			encodingID: enc.ID,
			studentID:  enc.StudentID,
			enrolledAt: enc.EnrolledAt,
			vector:     append([]float32(nil), enc.Vector...),
		}
	}

	if x.ann != nil {
		x.ann.Build(x.snapshotLocked())
	}

	if skipped > 0 {
		return fmt.Errorf("%w: skipped %d of %d encodings (want dim %d)",
			ErrDimensionMismatch, skipped, len(encodings), x.dim)
	}
	return nil
}

// Insert adds one encoding. The encoding is visible to every search
// that starts after Insert returns.
func (x *EncodingIndex) Insert(enc StoredEncoding) error {
	if len(enc.Vector) != x.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(enc.Vector), x.dim)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	entry := &indexEntry{
		encodingID: enc.ID,
		studentID:  enc.StudentID,
		enrolledAt: enc.EnrolledAt,
		vector:     append([]float32(nil), enc.Vector...),
	}
	x.entries[enc.ID] = entry

	if x.ann != nil {
		x.ann.Add(enc.ID, entry.vector)
	}
	return nil
}

// Remove deletes a single encoding. No search returning after Remove
// can include the removed encoding.
func (x *EncodingIndex) Remove(encodingID int64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.entries, encodingID)
	if x.ann != nil {
		x.ann.Delete(encodingID)
	}
}

// RemoveStudent deletes every encoding owned by the given student.
// Removal is keyed on ownership, so a bit-identical vector enrolled
// under another student is unaffected.
func (x *EncodingIndex) RemoveStudent(studentID string) int {
	x.mu.Lock()
	defer x.mu.Unlock()

	var removed int
	for id, entry := range x.entries {
		if entry.studentID == studentID {
			delete(x.entries, id)
			if x.ann != nil {
				x.ann.Delete(id)
			}
			removed++
		}
	}
	return removed
}

// Nearest returns every candidate at the minimal distance to the query
// (ties within floating-point equality are all returned) together with
// that minimal distance. An empty index yields no candidates and an
// infinite best distance.
func (x *EncodingIndex) Nearest(query []float32) ([]Candidate, float64, error) {
	if len(query) != x.dim {
		return nil, 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), x.dim)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.entries) == 0 {
		return nil, math.Inf(1), nil
	}

	pool := x.candidatePoolLocked(query)

	// First pass: minimal squared distance over the pool.
	minSq := math.Inf(1)
	for _, entry := range pool {
		if d := SquaredDistance(query, entry.vector); d < minSq {
			minSq = d
		}
	}

	// Second pass: collect everything within floating-point equality of
	// the minimum so the caller can apply a deterministic tie-break.
	var candidates []Candidate
	for _, entry := range pool {
		if SquaredDistance(query, entry.vector) <= minSq+distanceTieEpsilon {
			candidates = append(candidates, Candidate{
				EncodingID: entry.encodingID,
				StudentID:  entry.studentID,
				EnrolledAt: entry.enrolledAt,
				Distance:   math.Sqrt(minSq),
			})
		}
	}

	return candidates, math.Sqrt(minSq), nil
}

// candidatePoolLocked returns the entries the distance scan considers.
// With the accelerator attached the pool narrows to its k nearest
// candidates; deleted encodings are filtered through the authoritative
// map. Callers must hold at least a read lock.
func (x *EncodingIndex) candidatePoolLocked(query []float32) []*indexEntry {
	if x.ann != nil {
		ids := x.ann.Search(query, HNSWSearchCandidates)
		pool := make([]*indexEntry, 0, len(ids))
		for _, id := range ids {
			if entry, ok := x.entries[id]; ok {
				pool = append(pool, entry)
			}
		}
		if len(pool) > 0 {
			return pool
		}
		// Accelerator returned nothing usable; fall back to the scan.
	}

	pool := make([]*indexEntry, 0, len(x.entries))
	for _, entry := range x.entries {
		pool = append(pool, entry)
	}
	return pool
}

// snapshotLocked copies the current entries for accelerator rebuilds.
// Callers must hold the write lock.
func (x *EncodingIndex) snapshotLocked() map[int64][]float32 {
	out := make(map[int64][]float32, len(x.entries))
	for id, entry := range x.entries {
		out[id] = entry.vector
	}
	return out
}
