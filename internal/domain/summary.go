package domain

import (
	"errors"
	"sort"
)

// ErrNoValues is returned when summarizing an empty value list.
var ErrNoValues = errors.New("no values to summarize")

// Summary holds descriptive statistics over unemployment-rate values.
type Summary struct {
	Count   int
	Min     float64
	Max     float64
	Average float64
	Median  float64
}

// Flatten collects every record value in the aggregate. Counties are visited
// in ascending key order so the result is deterministic; records keep their
// stored order.
func Flatten(agg Aggregate) []float64 {
	keys := make([]string, 0, len(agg))
	n := 0
	for k, recs := range agg {
		keys = append(keys, k)
		n += len(recs)
	}
	sort.Strings(keys)

	values := make([]float64, 0, n)
	for _, k := range keys {
		for _, rec := range agg[k] {
			values = append(values, rec.Value)
		}
	}
	return values
}

// Summarize computes min, max, average, and median. The median of an even
// count is the mean of the two middle values. The input is not modified.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrNoValues
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Count:   n,
		Min:     sorted[0],
		Max:     sorted[n-1],
		Average: total / float64(n),
		Median:  median,
	}, nil
}
