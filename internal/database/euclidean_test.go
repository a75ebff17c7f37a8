package database

import (
	"math"
	"testing"
)

func TestEuclideanDistance_Identical(t *testing.T) {
	a := []float32{1, 0, 0, 0}
	if d := EuclideanDistance(a, a); d != 0 {
		t.Errorf("expected distance 0 for identical vectors, got %v", d)
	}
}

func TestEuclideanDistance_KnownValue(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{3, 4, 0}
	if d := EuclideanDistance(a, b); math.Abs(d-5) > 1e-9 {
		t.Errorf("expected distance 5, got %v", d)
	}
}

func TestEuclideanDistance_MismatchedLengths(t *testing.T) {
	a := []float32{1, 2}
	b := []float32{1, 2, 3}
	if d := EuclideanDistance(a, b); !math.IsInf(d, 1) {
		t.Errorf("expected +Inf for mismatched lengths, got %v", d)
	}
}

func TestEuclideanDistance_Empty(t *testing.T) {
	if d := EuclideanDistance(nil, nil); !math.IsInf(d, 1) {
		t.Errorf("expected +Inf for empty vectors, got %v", d)
	}
}

func TestSquaredDistance_OrderingMatchesEuclidean(t *testing.T) {
	q := []float32{1, 1}
	near := []float32{1, 1.5}
	far := []float32{4, 4}

	if SquaredDistance(q, near) >= SquaredDistance(q, far) {
		t.Error("squared distance ordering disagrees with Euclidean ordering")
	}
}
