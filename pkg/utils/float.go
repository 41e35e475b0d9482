package utils

import "math"

// Round rounds half away from zero to n decimal places.
func Round(v float64, n int) float64 {
	if !Finite(v) {
		return v
	}
	p := math.Pow10(n)
	return math.Round(v*p) / p
}

func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func AllFinite(vals ...float64) bool {
	for _, v := range vals {
		if !Finite(v) {
			return false
		}
	}
	return true
}

// Sanitize turns NaN and infinities into zero.
func Sanitize(v float64) float64 {
	if Finite(v) {
		return v
	}
	return 0
}

func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
