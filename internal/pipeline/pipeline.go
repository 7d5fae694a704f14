package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
	"github.com/couchcryptid/county-unemployment-etl/internal/observability"
)

// SeriesLoader writes one county's series. snapshot is the full aggregate
// after the county was inserted.
type SeriesLoader interface {
	LoadSeries(ctx context.Context, series domain.CountySeries, snapshot domain.Aggregate) error
}

// Sink is a named SeriesLoader. A failing required sink aborts the run;
// other sink failures are logged and the run continues.
type Sink struct {
	Name     string
	Loader   SeriesLoader
	Required bool
}

// Outcome is the per-county result of a fetch.
type Outcome string

const (
	OutcomeFound          Outcome = "found"
	OutcomeMissing        Outcome = "missing"
	OutcomeMalformed      Outcome = "malformed"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeNormalizeError Outcome = "normalize_error"
)

// Options controls what is requested for each county.
type Options struct {
	Years           domain.YearRange
	RegistrationKey string
	AnnualAverage   bool
	// Concurrency is the number of counties fetched at once. Values below 2
	// keep the fetch strictly sequential.
	Concurrency int
}

// RunSummary counts per-county outcomes for one run.
type RunSummary struct {
	Requested       int
	Found           int
	Missing         int
	Malformed       int
	TransportErrors int
	NormalizeErrors int
	Records         int
	Elapsed         time.Duration
}

func (s *RunSummary) add(o Outcome, records int) {
	s.Requested++
	switch o {
	case OutcomeFound:
		s.Found++
		s.Records += records
	case OutcomeMissing:
		s.Missing++
	case OutcomeMalformed:
		s.Malformed++
	case OutcomeTransportError:
		s.TransportErrors++
	case OutcomeNormalizeError:
		s.NormalizeErrors++
	}
}

// Fetcher runs the county fetch loop: request, extract, normalize, aggregate,
// persist.
type Fetcher struct {
	fetcher domain.SeriesFetcher
	sinks   []Sink
	agg     *Aggregator
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
	running atomic.Bool

	// persistMu serializes insert+sink writes so every snapshot written to
	// disk is complete and writes never interleave.
	persistMu sync.Mutex
}

// New creates a Fetcher. Sinks run in the order given.
func New(f domain.SeriesFetcher, sinks []Sink, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		fetcher: f,
		sinks:   sinks,
		agg:     NewAggregator(),
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once at least one county has been persisted.
func (p *Fetcher) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no county has been persisted yet")
	}
	return nil
}

// Progress is a point-in-time view of a run.
type Progress struct {
	Running  bool `json:"running"`
	Counties int  `json:"counties"`
}

// Progress reports whether a run is active and how many counties have data.
func (p *Fetcher) Progress() Progress {
	return Progress{Running: p.running.Load(), Counties: p.agg.Len()}
}

// Aggregate returns a snapshot of everything collected so far.
func (p *Fetcher) Aggregate() domain.Aggregate {
	return p.agg.Snapshot()
}

// Run fetches every county. Per-county failures are logged and counted;
// the returned error is non-nil only for a required sink failure or
// context cancellation.
func (p *Fetcher) Run(ctx context.Context, counties []domain.CountyID) (RunSummary, error) {
	start := clock.Now()
	p.running.Store(true)
	p.metrics.FetchRunning.Set(1)
	defer func() {
		p.running.Store(false)
		p.metrics.FetchRunning.Set(0)
	}()

	p.logger.Info("fetch started",
		"counties", len(counties),
		"start_year", p.opts.Years.Start,
		"end_year", p.opts.Years.End,
		"concurrency", max(p.opts.Concurrency, 1),
	)

	var summary RunSummary
	var err error
	if p.opts.Concurrency < 2 {
		err = p.runSequential(ctx, counties, &summary)
	} else {
		err = p.runConcurrent(ctx, counties, &summary)
	}
	summary.Elapsed = clock.Since(start)

	p.logger.Info("fetch finished",
		"requested", summary.Requested,
		"found", summary.Found,
		"missing", summary.Missing,
		"malformed", summary.Malformed,
		"transport_errors", summary.TransportErrors,
		"normalize_errors", summary.NormalizeErrors,
		"records", summary.Records,
		"elapsed", summary.Elapsed,
	)
	return summary, err
}

func (p *Fetcher) runSequential(ctx context.Context, counties []domain.CountyID, summary *RunSummary) error {
	for _, c := range counties {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome, n, err := p.processCounty(ctx, c)
		if err != nil {
			return err
		}
		summary.add(outcome, n)
	}
	return nil
}

// runConcurrent fetches with a fixed number of workers. Aggregate inserts
// and sink writes stay serialized; only the API calls overlap, so counties
// may land in the file in any order.
func (p *Fetcher) runConcurrent(ctx context.Context, counties []domain.CountyID, summary *RunSummary) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan domain.CountyID)
	var (
		mu       sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)

	for range p.opts.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				if ctx.Err() != nil {
					continue
				}
				outcome, n, err := p.processCounty(ctx, c)
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					cancel()
				} else {
					summary.add(outcome, n)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, c := range counties {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- c:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// processCounty handles one county. The error return is reserved for
// failures that must stop the run.
func (p *Fetcher) processCounty(ctx context.Context, county domain.CountyID) (Outcome, int, error) {
	key := county.Key()

	req, err := domain.BuildSeriesRequest(county, p.opts.Years, p.opts.RegistrationKey, p.opts.AnnualAverage)
	if err != nil {
		return "", 0, fmt.Errorf("build request for county %s: %w", key, err)
	}

	p.metrics.CountiesRequested.Inc()
	body, err := p.fetcher.FetchSeries(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return "", 0, ctx.Err()
		}
		p.logger.Error("bls request failed", "county", key, "series", req.SeriesIDs[0], "error", err)
		return p.outcome(OutcomeTransportError, 0)
	}

	ex := domain.ExtractSeries(body)
	switch ex.Kind {
	case domain.ExtractMalformed:
		p.logger.Warn("could not extract time series from response",
			"county", key,
			"reason", ex.Reason,
			"status", ex.Status,
			"messages", ex.Messages,
			"response", string(ex.Body),
		)
		return p.outcome(OutcomeMalformed, 0)
	case domain.ExtractEmpty:
		p.logger.Info("county did not exist", "county", key)
		return p.outcome(OutcomeMissing, 0)
	}

	records, err := domain.NormalizeSeries(ex.Records)
	if err != nil {
		p.logger.Error("normalize failed, skipping county", "county", key, "error", err)
		return p.outcome(OutcomeNormalizeError, 0)
	}

	p.logger.Info("county fetched", "county", key, "records", len(records))

	series := domain.CountySeries{County: county, SeriesID: req.SeriesIDs[0], Records: records}
	if err := p.persist(ctx, series); err != nil {
		return "", 0, err
	}
	return p.outcome(OutcomeFound, len(records))
}

func (p *Fetcher) outcome(o Outcome, records int) (Outcome, int, error) {
	p.metrics.CountyOutcomes.WithLabelValues(string(o)).Inc()
	return o, records, nil
}

func (p *Fetcher) persist(ctx context.Context, series domain.CountySeries) error {
	p.persistMu.Lock()
	defer p.persistMu.Unlock()

	p.agg.Insert(series)
	snapshot := p.agg.Snapshot()

	for _, s := range p.sinks {
		start := clock.Now()
		err := s.Loader.LoadSeries(ctx, series, snapshot)
		p.metrics.PersistDuration.WithLabelValues(s.Name).Observe(clock.Since(start).Seconds())
		if err == nil {
			continue
		}
		p.metrics.SinkErrors.WithLabelValues(s.Name).Inc()
		if s.Required {
			return fmt.Errorf("persist county %s to %s: %w", series.County.Key(), s.Name, err)
		}
		p.logger.Error("sink write failed", "sink", s.Name, "county", series.County.Key(), "error", err)
	}

	p.metrics.RecordsPersisted.Add(float64(len(series.Records)))
	p.ready.Store(true)
	return nil
}
