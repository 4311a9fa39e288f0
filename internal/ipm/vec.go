// SPDX-License-Identifier: MIT

package ipm

import "math"

func vdot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func vnorm(a []float64) float64 { return math.Sqrt(vdot(a, a)) }

// vaxpy returns a + alpha·b.
func vaxpy(a []float64, alpha float64, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + alpha*b[i]
	}
	return out
}

func vscale(a []float64, alpha float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = alpha * a[i]
	}
	return out
}
