//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/interconnection-etl/internal/adapter/kafka"
	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
	"github.com/couchcryptid/interconnection-etl/internal/pipeline"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

const testTopic = "test-merged-records"

// publishedRecord holds a deserialized message read from the topic.
type publishedRecord struct {
	Record  domain.MergedRecord
	Key     string
	Headers map[string]string
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("interconnection-test"))
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedRecord {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var rec domain.MergedRecord
	require.NoError(t, json.Unmarshal(msg.Value, &rec), "unmarshal message")
	return publishedRecord{Record: rec, Key: string(msg.Key), Headers: headers}
}

// TestMergeStagePublishesToKafka runs the merge stage with the Kafka sink
// and reads every merged row back from the topic.
func TestMergeStagePublishesToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	dir := t.TempDir()
	queue := table.New("Position", "Type", "County_raw", "State_raw", "County", "State", "Indicator")
	queue.Append("1", "W", "Lewis County", "NY", "Lewis", "New York", "1")
	queue.Append("2", "W", "Atlantis", "NY", "Atlantis", "New York", "1")
	require.NoError(t, table.Save(filepath.Join(dir, "NYISO_inservice.csv"), queue))

	amenities := table.New("County_raw", "State_raw", "County", "State", "NaturalAmenityTier", "NaturalAmenityRank")
	amenities.Append("", "NY", "Lewis", "New York", "3", "2100")
	amenityPath := filepath.Join(dir, "amenities.csv")
	require.NoError(t, table.Save(amenityPath, amenities))

	metrics := observability.NewMetricsForTesting()
	logger := observability.DiscardLogger()
	writer := kafka.NewWriter([]string{broker}, testTopic, metrics, logger)
	t.Cleanup(func() { _ = writer.Close() })

	runner := pipeline.NewRunner(logger, metrics)
	require.NoError(t, runner.Run(ctx, &pipeline.MergeStage{
		Dir:         dir,
		Inputs:      []string{"NYISO_inservice.csv"},
		AmenityPath: amenityPath,
		Sink:        writer,
		Logger:      logger,
	}))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	first := readPublished(ctx, t, consumer)
	assert.Equal(t, "Lewis, New York", first.Key)
	assert.Equal(t, "merged_NYISO_inservice.csv", first.Headers["source_file"])
	assert.Equal(t, "inservice", first.Headers["status"])
	assert.Equal(t, "true", first.Headers["has_tier"])
	assert.NotEmpty(t, first.Headers["processed_at"])
	assert.Equal(t, "Lewis", first.Record.County)
	assert.InDelta(t, 3, first.Record.Tier, 0)
	assert.Equal(t, domain.StatusInService, first.Record.Status)

	second := readPublished(ctx, t, consumer)
	assert.Equal(t, "Atlantis, New York", second.Key)
	assert.Equal(t, "false", second.Headers["has_tier"])
	assert.False(t, second.Record.HasTier)
}

// TestMergeStageFailsWhenBrokerUnreachable checks that a sink failure stops
// the run instead of silently dropping records.
func TestMergeStageFailsWhenBrokerUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir := t.TempDir()
	queue := table.New("Position", "Type", "County_raw", "State_raw", "County", "State", "Indicator")
	queue.Append("1", "W", "Lewis", "NY", "Lewis", "New York", "0")
	require.NoError(t, table.Save(filepath.Join(dir, "NYISO_withdrawn.csv"), queue))

	logger := observability.DiscardLogger()
	writer := kafka.NewWriter([]string{"127.0.0.1:1"}, testTopic, observability.NewMetricsForTesting(), logger)
	t.Cleanup(func() { _ = writer.Close() })

	stage := &pipeline.MergeStage{
		Dir:         dir,
		Inputs:      []string{"NYISO_withdrawn.csv"},
		AmenityPath: filepath.Join(dir, "absent.csv"),
		Sink:        writer,
		Logger:      logger,
	}
	_, err := stage.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish merged records")
}
