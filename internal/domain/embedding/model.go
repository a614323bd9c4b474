package embedding

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultDimension matches the sentence embedding model the pipeline targets.
const DefaultDimension = 768

var (
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrZeroVector        = errors.New("embedding has zero norm")
)

// Vector is the stored embedding of one match summary digest.
type Vector struct {
	MatchID         string
	Values          []float32
	DigestHash      string
	TemplateVersion string
	Model           string
	UpdatedAt       time.Time
}

// IsStale reports whether v was built from another digest than the current
// one.
func (v Vector) IsStale(digestHash, templateVersion string) bool {
	return v.DigestHash != digestHash || v.TemplateVersion != templateVersion
}

// Hit is one ranked search result.
type Hit struct {
	MatchID  string
	Distance float64
}

// Normalize scales values to unit length and checks the dimension.
func Normalize(values []float32, dimension int) ([]float32, error) {
	if dimension > 0 && len(values) != dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(values), dimension)
	}
	var sum float64
	for _, v := range values {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return nil, ErrZeroVector
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}

// CosineDistance is 1 - cos(a, b). For unit vectors this equals 1 - a.b,
// the same value pgvector's <=> operator returns.
func CosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, ErrZeroVector
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb)), nil
}

// Centroid averages vectors and renormalizes the result.
func Centroid(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, ErrZeroVector
	}
	dim := len(vectors[0])
	acc := make([]float32, dim)
	for _, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(vec), dim)
		}
		for i, v := range vec {
			acc[i] += v
		}
	}
	return Normalize(acc, dim)
}
