package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS county_unemployment (
	county_id   VARCHAR(5)    NOT NULL,
	series_id   VARCHAR(20)   NOT NULL,
	year        INTEGER       NOT NULL,
	month       SMALLINT      NOT NULL,
	period_name TEXT          NOT NULL DEFAULT '',
	value       NUMERIC(6,2)  NOT NULL,
	updated_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
	PRIMARY KEY (county_id, year, month)
);

CREATE INDEX IF NOT EXISTS idx_county_unemployment_year ON county_unemployment(year, month);
`

const upsertRecord = `
INSERT INTO county_unemployment (county_id, series_id, year, month, period_name, value, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
ON CONFLICT (county_id, year, month) DO UPDATE
SET series_id = EXCLUDED.series_id,
    period_name = EXCLUDED.period_name,
    value = EXCLUDED.value,
    updated_at = NOW()
`

// Writer upserts normalized records into PostgreSQL, one row per
// (county, year, month). It implements pipeline.SeriesLoader.
type Writer struct {
	db *sql.DB
}

// NewWriter opens a connection, verifies it, and creates the table if needed.
func NewWriter(ctx context.Context, dsn string) (*Writer, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	w := &Writer{db: db}
	if err := w.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

// Migrate creates the county_unemployment table and index.
func (w *Writer) Migrate(ctx context.Context) error {
	if _, err := w.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

// LoadSeries upserts every record of the county in one transaction.
func (w *Writer) LoadSeries(ctx context.Context, series domain.CountySeries, _ domain.Aggregate) error {
	if len(series.Records) == 0 {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	county := series.County.Padded()
	for _, rec := range series.Records {
		if _, err := tx.ExecContext(ctx, upsertRecord,
			county, series.SeriesID, rec.Year, rec.Month, rec.PeriodName, rec.Value,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("postgres: upsert county %s %d-%02d: %w", county, rec.Year, rec.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.db.Close()
}
