package teammetrics

import (
	"math"
	"sort"
)

// percentile interpolates linearly between closest ranks, the numpy default.
func percentile(values []float64, p float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], true
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo)), true
}

func median(values []float64) (float64, bool) {
	return percentile(values, 50)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 {
	return &v
}

// share returns own/(own+other) x 100 rounded to 2 dp with the complement
// derived from it so the pair always sums to 100.
func share(own, other int) (*float64, *float64) {
	total := own + other
	if total == 0 {
		return nil, nil
	}
	a := round2(float64(own) / float64(total) * 100)
	b := round2(100 - a)
	return &a, &b
}
