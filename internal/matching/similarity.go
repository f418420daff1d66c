// Package matching ranks candidate profiles against a query embedding and
// assembles skill-diverse teams. Everything here is pure: callers load the
// data, this package only scores and selects.
package matching

import (
	"errors"
	"math"
)

var (
	ErrEmptyVector       = errors.New("matching: vector is empty")
	ErrDimensionMismatch = errors.New("matching: vectors have different dimensions")
)

// CosineSimilarity returns dot(a,b) / (|a| * |b|), accumulated in float64.
// A zero-magnitude vector has similarity 0 with everything.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrEmptyVector
	}
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// MeanVector averages vectors element-wise. Vectors whose length differs from
// the first one are ignored. Returns nil for empty input.
func MeanVector(vecs [][]float32) []float32 {
	var dim int
	for _, v := range vecs {
		if len(v) > 0 {
			dim = len(v)
			break
		}
	}
	if dim == 0 {
		return nil
	}

	sum := make([]float64, dim)
	n := 0
	for _, v := range vecs {
		if len(v) != dim {
			continue
		}
		for i, f := range v {
			sum[i] += float64(f)
		}
		n++
	}

	out := make([]float32, dim)
	for i := range sum {
		out[i] = float32(sum[i] / float64(n))
	}
	return out
}
