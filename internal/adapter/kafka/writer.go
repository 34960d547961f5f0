package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
)

// Writer publishes merged queue records to a Kafka topic.
// It implements pipeline.RecordSink.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for topic.
func NewWriter(brokers []string, topic string, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// WriteRecords serializes and publishes the merged rows of one file in a
// single WriteMessages call.
func (w *Writer) WriteRecords(ctx context.Context, source string, records []domain.MergedRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := domain.Now()
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(source, records[i], now)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d records from %s: %w", len(msgs), source, err)
	}
	w.metrics.RecordsProduced.Add(float64(len(msgs)))
	w.logger.Debug("published merged records", "source", source, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a MergedRecord into a Kafka message keyed by
// "County, State" so a county's projects share a partition.
func serializeToMessage(source string, rec domain.MergedRecord, at time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize merged record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Key().String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source_file", Value: []byte(source)},
			{Key: "status", Value: []byte(rec.Status.String())},
			{Key: "has_tier", Value: []byte(strconv.FormatBool(rec.HasTier))},
			{Key: "processed_at", Value: []byte(at.Format(time.RFC3339))},
		},
	}, nil
}
