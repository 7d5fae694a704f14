// Command analyze reads the mapping written by fetch and prints the minimum,
// maximum, average, and median of every unemployment rate in it.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/couchcryptid/county-unemployment-etl/internal/adapter/file"
	"github.com/couchcryptid/county-unemployment-etl/internal/config"
	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
	"github.com/couchcryptid/county-unemployment-etl/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(os.Stdout, cfg.OutputPath); err != nil {
		logger.Error("analyze failed", "path", cfg.OutputPath, "error", err)
		os.Exit(1)
	}
}

func run(w io.Writer, path string) error {
	agg, err := file.Load(path)
	if err != nil {
		return err
	}

	s, err := domain.Summarize(domain.Flatten(agg))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "Min is %s\nMax is %s\nAverage is %s\nMedian is %s\n",
		formatValue(s.Min), formatValue(s.Max), formatValue(s.Average), formatValue(s.Median))
	return err
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
