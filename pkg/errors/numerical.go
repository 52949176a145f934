package errors

import (
	"math"
)

func unstable(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// CheckNumericalStability returns a NumericalInstabilityError when any
// value is NaN or Inf. Iterative solvers call it after weight updates to
// fail fast instead of silently diverging.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if unstable(v) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckMatrix scans a matrix row by row and reports the first row that
// contains NaN or Inf entries. At most 10 offending values are collected
// so the error message stays readable.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols, iteration int) error {
	for i := 0; i < rows; i++ {
		var bad []float64
		for j := 0; j < cols && len(bad) < 10; j++ {
			if v := matrix.At(i, j); unstable(v) {
				bad = append(bad, v)
			}
		}
		if len(bad) > 0 {
			return NewNumericalInstabilityError(operation, bad, iteration)
		}
	}
	return nil
}

// SafeDivide returns numerator/denominator, or 0 when the denominator is
// zero or near enough to overflow the quotient.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}

// ClipValue limits value to the closed range [min, max].
func ClipValue(value, min, max float64) float64 {
	switch {
	case value < min:
		return min
	case value > max:
		return max
	default:
		return value
	}
}
