package embedding

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	got, err := Normalize([]float32{3, 4}, 2)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if math.Abs(float64(got[0])-0.6) > 1e-6 || math.Abs(float64(got[1])-0.8) > 1e-6 {
		t.Fatalf("unexpected unit vector %v", got)
	}

	if _, err := Normalize([]float32{1, 2, 3}, 2); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := Normalize([]float32{0, 0}, 2); !errors.Is(err, ErrZeroVector) {
		t.Fatalf("expected ErrZeroVector, got %v", err)
	}
}

func TestCosineDistance(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"scale invariant", []float32{2, 0}, []float32{5, 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CosineDistance(tc.a, tc.b)
			if err != nil {
				t.Fatalf("distance: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("CosineDistance = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	got, err := Centroid([][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("centroid: %v", err)
	}
	want := float32(1 / math.Sqrt2)
	if math.Abs(float64(got[0]-want)) > 1e-6 || math.Abs(float64(got[1]-want)) > 1e-6 {
		t.Fatalf("unexpected centroid %v", got)
	}
	if _, err := Centroid(nil); !errors.Is(err, ErrZeroVector) {
		t.Fatalf("expected ErrZeroVector for empty input, got %v", err)
	}
}

func TestVector_IsStale(t *testing.T) {
	v := Vector{DigestHash: "h1", TemplateVersion: "v1"}
	if v.IsStale("h1", "v1") {
		t.Fatalf("same digest must not be stale")
	}
	if !v.IsStale("h2", "v1") || !v.IsStale("h1", "v2") {
		t.Fatalf("changed digest or template must be stale")
	}
}
