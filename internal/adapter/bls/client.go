package bls

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
	"github.com/couchcryptid/county-unemployment-etl/internal/observability"
)

// maxBodyBytes caps how much of a response is read. A 20-year monthly series
// is well under 100 KB.
const maxBodyBytes = 8 << 20

var (
	// ErrTransport covers DNS, connect, TLS, and timeout failures.
	ErrTransport = errors.New("bls transport error")
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("bls unexpected status")
	// ErrMalformedBody is returned when a 2xx body is not valid JSON.
	ErrMalformedBody = errors.New("bls response is not JSON")
)

// Client implements domain.SeriesFetcher against the BLS Public Data API.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a BLS API client posting to url.
func NewClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchSeries posts one series request and returns the raw JSON body.
// There is no retry; each call is exactly one HTTP request.
func (c *Client) FetchSeries(ctx context.Context, sr domain.SeriesRequest) ([]byte, error) {
	payload, err := json.Marshal(sr)
	if err != nil {
		return nil, fmt.Errorf("encode series request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.APIRequests.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.APIRequests.WithLabelValues("status").Inc()
		return nil, fmt.Errorf("%w: status %d: %s", ErrStatus, resp.StatusCode, truncate(body, 512))
	}

	if !json.Valid(body) {
		c.metrics.APIRequests.WithLabelValues("body").Inc()
		return nil, fmt.Errorf("%w: %s", ErrMalformedBody, truncate(body, 512))
	}

	c.metrics.APIRequests.WithLabelValues("success").Inc()
	c.logger.Debug("bls request complete",
		"series", sr.SeriesIDs,
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return body, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
