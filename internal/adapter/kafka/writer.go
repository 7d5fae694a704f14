package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
)

// Writer publishes each county's normalized series to a Kafka topic.
// It implements pipeline.SeriesLoader.
type Writer struct {
	writer *kafkago.Writer
	runID  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the given brokers and topic.
// runID is attached to every message so consumers can group one fetch run.
func NewWriter(brokers []string, topic, runID string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, runID: runID, logger: logger}
}

// LoadSeries publishes the county's records as one message keyed by county.
// The snapshot is ignored; Kafka consumers receive one message per county.
func (w *Writer) LoadSeries(ctx context.Context, series domain.CountySeries, _ domain.Aggregate) error {
	msg, err := serializeToMessage(series, w.runID)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish county %s: %w", series.County.Key(), err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a county series into a Kafka message.
func serializeToMessage(series domain.CountySeries, runID string) (kafkago.Message, error) {
	data, err := json.Marshal(series.Records)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize county series: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(series.County.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "series_id", Value: []byte(series.SeriesID)},
			{Key: "run_id", Value: []byte(runID)},
			{Key: "record_count", Value: []byte(strconv.Itoa(len(series.Records)))},
		},
	}, nil
}
