package publisher

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/vipinyadav01/zero-fashion/internal/orders"
)

type mockSource struct {
	mu        sync.Mutex
	events    []*orders.OutboxEvent
	processed []int64
}

func (m *mockSource) GetUnprocessedEvents(context.Context, int) ([]*orders.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) > 0 {
		ev := []*orders.OutboxEvent{m.events[0]} // Return first event once
		m.events = m.events[1:]
		return ev, nil
	}
	return nil, nil
}

func (m *mockSource) MarkEventAsProcessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed = append(m.processed, id)
	return nil
}

func (m *mockSource) processedIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.processed...)
}

func setupKafka(t *testing.T) (string, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func TestPoller_PublishesAndMarksProcessed(t *testing.T) {
	broker, cleanup := setupKafka(t)
	defer cleanup()

	payload, err := json.Marshal(map[string]string{"aggregate_id": "order-1", "event_type": orders.EventOrderPlaced})
	require.NoError(t, err)

	source := &mockSource{events: []*orders.OutboxEvent{
		{ID: 1, AggregateID: "order-1", EventType: orders.EventOrderPlaced, Payload: payload},
	}}

	poller := NewOutboxPoller(source, broker)
	defer poller.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	go poller.Run(ctx)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  []string{broker},
		Topic:    "order-events",
		GroupID:  "poller-test",
		MaxBytes: 10e6,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order-1", string(msg.Key))
	assert.JSONEq(t, string(payload), string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, orders.EventOrderPlaced, string(msg.Headers[0].Value))

	require.Eventually(t, func() bool {
		ids := source.processedIDs()
		return len(ids) == 1 && ids[0] == 1
	}, 10*time.Second, 100*time.Millisecond)
}
