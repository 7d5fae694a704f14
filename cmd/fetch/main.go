// Command fetch scans the fixed county ranges, downloads each county's LAUS
// unemployment-rate series from the BLS public API, and writes the aggregated
// mapping to OUTPUT_PATH after every county that returns data.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/couchcryptid/county-unemployment-etl/internal/adapter/bls"
	"github.com/couchcryptid/county-unemployment-etl/internal/adapter/file"
	"github.com/couchcryptid/county-unemployment-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/county-unemployment-etl/internal/adapter/kafka"
	"github.com/couchcryptid/county-unemployment-etl/internal/adapter/postgres"
	"github.com/couchcryptid/county-unemployment-etl/internal/config"
	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
	"github.com/couchcryptid/county-unemployment-etl/internal/observability"
	"github.com/couchcryptid/county-unemployment-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateFetch(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("fetch failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	metrics := observability.NewMetrics()

	var fetcher domain.SeriesFetcher = bls.NewClient(cfg.BLSAPIURL, cfg.BLSTimeout, metrics, logger)

	if cfg.CacheEnabled() {
		store := bls.NewRedisStore(bls.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.CacheTTL)
		defer store.Close()
		if err := store.Ping(ctx); err != nil {
			// A cold cache only costs API calls.
			logger.Warn("redis unavailable, response cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			fetcher = bls.NewCachedFetcher(fetcher, store, metrics, logger)
			logger.Info("response cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	sinks := []pipeline.Sink{{Name: "file", Loader: file.NewStore(cfg.OutputPath), Required: true}}

	if cfg.KafkaEnabled() {
		w := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, runID, logger)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, pipeline.Sink{Name: "kafka", Loader: w})
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic)
	}

	if cfg.PostgresEnabled() {
		w, err := postgres.NewWriter(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer w.Close()
		sinks = append(sinks, pipeline.Sink{Name: "postgres", Loader: w})
		logger.Info("postgres sink enabled")
	}

	counties, err := domain.Counties(domain.FixedScanRanges)
	if err != nil {
		return err
	}

	p := pipeline.New(fetcher, sinks, pipeline.Options{
		Years:           cfg.Years,
		RegistrationKey: cfg.BLSRegistrationKey,
		AnnualAverage:   cfg.AnnualAverage,
		Concurrency:     cfg.FetchConcurrency,
	}, logger, metrics)

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	summary, err := p.Run(ctx, counties)
	if err != nil {
		return fmt.Errorf("fetch stopped after %d counties: %w", summary.Requested, err)
	}
	if summary.Found == 0 {
		logger.Warn("no county returned data; output file was not written", "path", cfg.OutputPath)
	} else {
		logger.Info("output written", "path", cfg.OutputPath, "counties", summary.Found)
	}
	return nil
}
