package database

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

func testEncoding(id int64, studentID string, vector []float32) StoredEncoding {
	return StoredEncoding{
		ID:         id,
		StudentID:  studentID,
		Vector:     vector,
		EnrolledAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func unitVector(dim, axis int) []float32 {
	v := make([]float32, dim)
	v[axis] = 1
	return v
}

func TestEncodingIndex_InsertVisibleToSearch(t *testing.T) {
	idx := NewEncodingIndex(4)

	if err := idx.Insert(testEncoding(1, "S1", unitVector(4, 0))); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	candidates, best, err := idx.Nearest(unitVector(4, 0))
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best != 0 {
		t.Errorf("expected best distance 0, got %v", best)
	}
	if len(candidates) != 1 || candidates[0].StudentID != "S1" {
		t.Errorf("expected single candidate S1, got %+v", candidates)
	}
}

func TestEncodingIndex_DimensionMismatch(t *testing.T) {
	idx := NewEncodingIndex(4)

	if err := idx.Insert(testEncoding(1, "S1", unitVector(3, 0))); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch on insert, got %v", err)
	}

	if _, _, err := idx.Nearest(unitVector(5, 0)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch on search, got %v", err)
	}
}

func TestEncodingIndex_EmptyIndex(t *testing.T) {
	idx := NewEncodingIndex(4)

	candidates, best, err := idx.Nearest(unitVector(4, 0))
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates from empty index, got %+v", candidates)
	}
	if !math.IsInf(best, 1) {
		t.Errorf("expected infinite best distance, got %v", best)
	}
}

func TestEncodingIndex_LoadReplacesContents(t *testing.T) {
	idx := NewEncodingIndex(4)
	if err := idx.Insert(testEncoding(1, "S1", unitVector(4, 0))); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	err := idx.Load([]StoredEncoding{
		testEncoding(2, "S2", unitVector(4, 1)),
		testEncoding(3, "S3", unitVector(4, 2)),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if idx.Count() != 2 {
		t.Errorf("expected 2 encodings after load, got %d", idx.Count())
	}

	candidates, _, err := idx.Nearest(unitVector(4, 0))
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for _, c := range candidates {
		if c.StudentID == "S1" {
			t.Error("pre-load encoding survived the load")
		}
	}
}

func TestEncodingIndex_LoadSkipsWrongDimensions(t *testing.T) {
	idx := NewEncodingIndex(4)

	err := idx.Load([]StoredEncoding{
		testEncoding(1, "S1", unitVector(4, 0)),
		testEncoding(2, "S2", unitVector(3, 0)), // wrong dim
	})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if idx.Count() != 1 {
		t.Errorf("expected 1 encoding loaded, got %d", idx.Count())
	}
}

func TestEncodingIndex_RemoveStudent_IdentityNotVector(t *testing.T) {
	idx := NewEncodingIndex(4)

	// Two students enrolled with bit-identical vectors. Removing S1
	// must not affect S2's entry.
	shared := unitVector(4, 0)
	if err := idx.Insert(testEncoding(1, "S1", shared)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := idx.Insert(testEncoding(2, "S2", shared)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if removed := idx.RemoveStudent("S1"); removed != 1 {
		t.Fatalf("expected 1 encoding removed, got %d", removed)
	}

	candidates, best, err := idx.Nearest(shared)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best != 0 {
		t.Errorf("expected S2 still matchable at distance 0, got %v", best)
	}
	for _, c := range candidates {
		if c.StudentID == "S1" {
			t.Error("removed student S1 still returned by search")
		}
	}
}

func TestEncodingIndex_Remove(t *testing.T) {
	idx := NewEncodingIndex(4)
	if err := idx.Insert(testEncoding(7, "S1", unitVector(4, 0))); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	idx.Remove(7)

	candidates, _, err := idx.Nearest(unitVector(4, 0))
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected removed encoding to be gone, got %+v", candidates)
	}
}

func TestEncodingIndex_InsertCopiesVector(t *testing.T) {
	idx := NewEncodingIndex(4)

	vec := unitVector(4, 0)
	if err := idx.Insert(testEncoding(1, "S1", vec)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	// Mutating the caller's slice must not change stored distances.
	vec[0] = 99

	_, best, err := idx.Nearest(unitVector(4, 0))
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best != 0 {
		t.Errorf("stored vector aliased caller slice, best distance %v", best)
	}
}

func TestEncodingIndex_ConcurrentReadsAndWrites(t *testing.T) {
	idx := NewEncodingIndex(8)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Writers insert and remove while readers search. The race
	// detector and the copy semantics guarantee no torn vectors.
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := int64(w*1000 + i)
				_ = idx.Insert(testEncoding(id, "S1", unitVector(8, i%8)))
				if i%3 == 0 {
					idx.Remove(id)
				}
			}
		}(w)
	}

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, _, err := idx.Nearest(unitVector(8, 0)); err != nil {
					t.Errorf("concurrent search failed: %v", err)
					return
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(50 * time.Millisecond)
		close(stop)
	}()

	wg.Wait()
}

func TestEncodingIndex_HNSWMatchesExactScan(t *testing.T) {
	exact := NewEncodingIndex(4)
	approx := NewEncodingIndex(4)

	encodings := []StoredEncoding{
		testEncoding(1, "S1", []float32{1, 0, 0, 0}),
		testEncoding(2, "S2", []float32{0, 1, 0, 0}),
		testEncoding(3, "S3", []float32{0, 0, 1, 0}),
		testEncoding(4, "S4", []float32{0.9, 0.1, 0, 0}),
	}
	if err := exact.Load(encodings); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := approx.Load(encodings); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	approx.EnableHNSW()

	query := []float32{0.95, 0.05, 0, 0}

	_, wantBest, err := exact.Nearest(query)
	if err != nil {
		t.Fatalf("exact search failed: %v", err)
	}
	got, gotBest, err := approx.Nearest(query)
	if err != nil {
		t.Fatalf("hnsw search failed: %v", err)
	}

	if math.Abs(wantBest-gotBest) > 1e-6 {
		t.Errorf("hnsw best distance %v differs from exact %v", gotBest, wantBest)
	}
	if len(got) == 0 || got[0].StudentID != "S4" {
		t.Errorf("expected S4 as nearest, got %+v", got)
	}
}

func TestEncodingIndex_HNSWDeleteFiltered(t *testing.T) {
	idx := NewEncodingIndex(4)
	if err := idx.Load([]StoredEncoding{
		testEncoding(1, "S1", unitVector(4, 0)),
		testEncoding(2, "S2", unitVector(4, 1)),
	}); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	idx.EnableHNSW()

	idx.RemoveStudent("S1")

	candidates, _, err := idx.Nearest(unitVector(4, 0))
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for _, c := range candidates {
		if c.StudentID == "S1" {
			t.Error("deleted student returned through HNSW path")
		}
	}
}
