package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/BearBump/ReviewBox/internal/broker/messages"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func TestProducer_StatusChangedThroughBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("kafka container is not started in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	kc, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("reviewbox-test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kc.Terminate(ctx) })

	brokers, err := kc.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	const topic = "homework.status_changed"

	// Топик создаём заранее; если брокер откажет, сработает auto-create у writer.
	if conn, err := kafka.DialContext(ctx, "tcp", brokers[0]); err == nil {
		_ = conn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
		_ = conn.Close()
	}

	p := NewProducer(brokers)
	t.Cleanup(func() { _ = p.Close() })

	ev := messages.StatusChanged{
		HomeworkID:     "42",
		HomeworkName:   "hw_api",
		Status:         "approved",
		PreviousStatus: "reviewing",
		Verdict:        "Работа проверена: ревьюеру всё понравилось. Ура!",
		ChangedAt:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	value, err := json.Marshal(ev)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return p.Publish(pubCtx, topic, []byte(ev.HomeworkID), value) == nil
	}, time.Minute, time.Second)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = r.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	msg, err := r.ReadMessage(readCtx)
	require.NoError(t, err)

	require.Equal(t, "42", string(msg.Key))
	var got messages.StatusChanged
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.Equal(t, ev.HomeworkName, got.HomeworkName)
	require.Equal(t, ev.Status, got.Status)
	require.Equal(t, ev.PreviousStatus, got.PreviousStatus)
	require.Equal(t, ev.Verdict, got.Verdict)
	require.True(t, ev.ChangedAt.Equal(got.ChangedAt))
}
