// Package summary derives the dashboard's descriptive statistics and alert feed
// from an in-memory snapshot. Every function here is pure: no I/O, no shared
// state, and a zero denominator always yields 0.
package summary

import "math"

// Average returns sum/n, or 0 when n is 0.
func Average(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Percentage returns num/den*100, or 0 when den is 0.
func Percentage(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// Ratio returns num/den, or 0 when den is 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return roundTo(v, 10)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return roundTo(v, 100)
}

func RoundInt(v float64) int {
	return int(math.Round(v))
}

func roundTo(v, scale float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*scale) / scale
}
