package dataprocessing

import (
	"math"
	"sort"
)

// Quantile is the value of a series at fraction Q of its sorted values
type Quantile struct {
	Q     float64
	Value float64
}

// Summary holds the descriptive statistics of a series, nulls excluded
type Summary struct {
	Rows      int
	Count     int
	Nulls     int
	Mean      float64
	StdDev    float64
	Min       float64
	Max       float64
	Quantiles []Quantile
}

// Summarize computes the statistics of s for the requested quantiles.
// Statistics with no defined value (no entries, or std of one entry) are NaN.
func Summarize(s *Series, quantiles []float64) Summary {
	values := s.Values()
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	summary := Summary{
		Rows:      s.Len(),
		Count:     len(values),
		Nulls:     s.NullCount(),
		Mean:      Mean(values),
		Min:       math.NaN(),
		Max:       math.NaN(),
		Quantiles: make([]Quantile, len(quantiles)),
	}
	summary.StdDev = SampleStdDev(values, summary.Mean)

	if len(sorted) > 0 {
		summary.Min = sorted[0]
		summary.Max = sorted[len(sorted)-1]
	}

	for i, q := range quantiles {
		summary.Quantiles[i] = Quantile{Q: q, Value: Percentile(sorted, q)}
	}

	return summary
}

// QuantileValues returns the quantile values in request order
func (s Summary) QuantileValues() []float64 {
	out := make([]float64, len(s.Quantiles))
	for i, q := range s.Quantiles {
		out[i] = q.Value
	}
	return out
}

// Percentile calculates the value at a given percentile of sorted values,
// interpolating linearly between the two closest ranks (rank = p*(n-1)).
func Percentile(sorted []float64, percentile float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}

	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 1 {
		return sorted[n-1]
	}

	index := percentile * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Mean returns the arithmetic mean, NaN for no values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev computes the sample standard deviation (n-1 denominator).
// It is NaN for fewer than two values.
func SampleStdDev(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return math.NaN()
	}

	sumSquaredDeviations := 0.0
	for _, v := range values {
		deviation := v - mean
		sumSquaredDeviations += deviation * deviation
	}

	return math.Sqrt(sumSquaredDeviations / float64(len(values)-1))
}

// Order returns row indices of s sorted by value, ascending or descending.
// The sort is stable and null entries always come last.
func Order(s *Series, descending bool) []int {
	idx := make([]int, s.Len())
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		nullA, nullB := s.IsNull(ia), s.IsNull(ib)
		if nullA || nullB {
			return !nullA && nullB
		}
		if descending {
			return s.compare(ia, ib) > 0
		}
		return s.compare(ia, ib) < 0
	})

	return idx
}
