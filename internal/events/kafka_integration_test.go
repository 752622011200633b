//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkaContainer "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkaContainer.RunContainer(ctx, testcontainers.WithEnv(map[string]string{
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	broker := brokers[0]

	topic := "exercise_catalog_events"

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))

	publisher := NewKafkaPublisher([]string{broker}, topic)
	t.Cleanup(func() { _ = publisher.Close() })

	payload := ExerciseChanged{
		ExerciseID: 7,
		Name:       "Leg Press",
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, publisher.Publish(ctx, TypeExerciseCreated, payload))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		GroupID:     "catalog-integration",
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	msg, err := reader.FetchMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, "7", string(msg.Key))

	var decoded ExerciseChanged
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, payload.Name, decoded.Name)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, TypeExerciseCreated, headers["event_type"])
}
