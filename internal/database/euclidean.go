package database

import "math"

// SquaredDistance computes the squared Euclidean distance between two
// vectors. Ordering against a fixed threshold is preserved under the
// square, so the scan avoids the sqrt per candidate.
// Returns +Inf for mismatched or empty inputs.
func SquaredDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// EuclideanDistance computes the Euclidean (L2) distance between two
// vectors. Returns +Inf for mismatched or empty inputs.
func EuclideanDistance(a, b []float32) float64 {
	return math.Sqrt(SquaredDistance(a, b))
}
