package domain

import "context"

// SeriesFetcher retrieves the raw API response body for a series request.
// Implementations return an error for transport failures, non-2xx statuses,
// and bodies that are not JSON; the shape of the JSON is checked by
// ExtractSeries.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, req SeriesRequest) ([]byte, error)
}
