package pipeline

import (
	"sync"

	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
)

// Aggregator accumulates county series for one run. It is safe for
// concurrent use.
type Aggregator struct {
	mu  sync.RWMutex
	agg domain.Aggregate
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{agg: make(domain.Aggregate)}
}

// Insert stores (or replaces) the series for a county. Empty series are
// ignored so a county only ever appears with data.
func (a *Aggregator) Insert(series domain.CountySeries) bool {
	if len(series.Records) == 0 {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.agg[series.County.Key()] = series.Records
	return true
}

// Snapshot returns a copy of the mapping. Record slices are shared and must
// not be modified.
func (a *Aggregator) Snapshot() domain.Aggregate {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(domain.Aggregate, len(a.agg))
	for k, v := range a.agg {
		out[k] = v
	}
	return out
}

// Len returns the number of counties stored.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.agg)
}
