package bls

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
	"github.com/couchcryptid/county-unemployment-etl/internal/observability"
)

// ResponseStore holds raw API response bodies by cache key.
type ResponseStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// CachedFetcher wraps a SeriesFetcher with a response store so repeat runs
// do not spend the daily API quota on series already downloaded.
type CachedFetcher struct {
	inner   domain.SeriesFetcher
	store   ResponseStore
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner domain.SeriesFetcher, store ResponseStore, metrics *observability.Metrics, logger *slog.Logger) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *CachedFetcher) FetchSeries(ctx context.Context, req domain.SeriesRequest) ([]byte, error) {
	key := CacheKey(req)

	body, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		// A broken cache must not stop the run; fall through to the API.
		c.metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("response cache read failed", "key", key, "error", err)
	case ok:
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return body, nil
	default:
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	body, err = c.inner.FetchSeries(ctx, req)
	if err != nil {
		return nil, err
	}

	// Only cache series with data so missing counties and malformed
	// responses are asked for again next run.
	if domain.ExtractSeries(body).Kind == domain.ExtractFound {
		if err := c.store.Put(ctx, key, body); err != nil {
			c.logger.Warn("response cache write failed", "key", key, "error", err)
		}
	}
	return body, nil
}

// CacheKey identifies a request independent of the registration key.
func CacheKey(req domain.SeriesRequest) string {
	key := "bls:series:" + strings.Join(req.SeriesIDs, ",") + ":" + req.StartYear + ":" + req.EndYear
	if req.AnnualAverage {
		key += ":annual"
	}
	return key
}
