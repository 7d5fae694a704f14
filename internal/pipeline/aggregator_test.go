package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
)

func TestAggregator_InsertIgnoresEmptySeries(t *testing.T) {
	a := NewAggregator()

	assert.False(t, a.Insert(domain.CountySeries{County: 37001}))
	assert.Equal(t, 0, a.Len())

	assert.True(t, a.Insert(domain.CountySeries{
		County:  1001,
		Records: []domain.Record{{Month: 1, PeriodName: "January", Year: 2014, Value: 6.5}},
	}))
	assert.Equal(t, 1, a.Len())
	assert.Contains(t, a.Snapshot(), "1001")
}

func TestAggregator_InsertReplaces(t *testing.T) {
	a := NewAggregator()
	a.Insert(domain.CountySeries{County: 45001, Records: []domain.Record{{Month: 1, Year: 2014, Value: 1}}})
	a.Insert(domain.CountySeries{County: 45001, Records: []domain.Record{{Month: 2, Year: 2014, Value: 2}}})

	snap := a.Snapshot()
	assert.Len(t, snap, 1)
	assert.InDelta(t, 2.0, snap["45001"][0].Value, 0)
}

func TestAggregator_SnapshotIsIndependent(t *testing.T) {
	a := NewAggregator()
	a.Insert(domain.CountySeries{County: 45001, Records: []domain.Record{{Month: 1, Year: 2014, Value: 1}}})

	snap := a.Snapshot()
	a.Insert(domain.CountySeries{County: 45003, Records: []domain.Record{{Month: 1, Year: 2014, Value: 3}}})

	assert.Len(t, snap, 1)
	assert.Equal(t, 2, a.Len())
}

func TestAggregator_ConcurrentInsert(t *testing.T) {
	a := NewAggregator()
	var wg sync.WaitGroup
	for n := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Insert(domain.CountySeries{
				County:  domain.CountyID(37001 + n),
				Records: []domain.Record{{Month: 1, Year: 2014, Value: float64(n)}},
			})
			_ = a.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, a.Len())
}
