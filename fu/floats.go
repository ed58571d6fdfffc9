package fu

import "math"

func Mean(a []float64) float64 {
	var c float64
	for _, x := range a {
		c += x
	}
	return c / float64(len(a))
}

func Mse(a, b []float64) float64 {
	var c float64
	for i, x := range a {
		q := x - b[i]
		c += q * q
	}
	return c / float64(len(a))
}

func Maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func Mini(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Fnzi returns a if it's not zero and dflt otherwise
func Fnzi(a, dflt int) int {
	if a != 0 {
		return a
	}
	return dflt
}

// Fnzd returns a if it's not zero and dflt otherwise
func Fnzd(a, dflt float64) float64 {
	if a != 0 {
		return a
	}
	return dflt
}

// Indmind returns the index of the minimal value, the first one on ties
func Indmind(a []float64) int {
	j := 0
	for i := 1; i < len(a); i++ {
		if a[i] < a[j] {
			j = i
		}
	}
	return j
}

// ClipMin returns v if v >= lo and lo otherwise
func ClipMin(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}

// IsFin reports whether v is neither NaN nor an infinity
func IsFin(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
