package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/izuleon01/fastserve/internal/domain"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

type mockWriter struct {
	msgs   []kafkaGo.Message
	err    error
	closed bool
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *mockWriter) Close() error {
	w.closed = true
	return nil
}

func testEvent() OrderConfirmed {
	burger := domain.MenuItemDTO{MenuItemID: domain.NewID(), Name: "Burger", Price: 10}
	items := []domain.OrderItemDTO{domain.NewOrderItemDTO(burger, 3)}
	order := domain.NewOrderDTO(items)
	return OrderConfirmed{
		ConfirmationID:  domain.NewID(),
		Items:           order.OrderItems,
		TotalOrderPrice: order.TotalOrderPrice,
		ConfirmedAt:     time.Now().UTC(),
	}
}

func TestPublishOrderConfirmed_WritesMessage(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w}
	event := testEvent()

	require.NoError(t, p.PublishOrderConfirmed(context.Background(), event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, event.ConfirmationID, string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, EventOrderConfirmed, string(msg.Headers[0].Value))

	var decoded OrderConfirmed
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, 30.0, decoded.TotalOrderPrice)
	assert.Len(t, decoded.Items, 1)
}

func TestPublishOrderConfirmed_WriterError(t *testing.T) {
	w := &mockWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w}

	err := p.PublishOrderConfirmed(context.Background(), testEvent())
	require.ErrorContains(t, err, "publish order confirmed event failed")
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w}
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNop(t *testing.T) {
	var p OrderPublisher = Nop{}
	assert.NoError(t, p.PublishOrderConfirmed(context.Background(), testEvent()))
	assert.NoError(t, p.Close())
}

func setupKafka(t *testing.T) (string, func()) {
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

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkaGo.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestKafkaPublisher_PublishesToKafka(t *testing.T) {
	brokerAddr, cleanup := setupKafka(t)
	defer cleanup()

	topic := "orders-confirmed"
	createTopic(t, brokerAddr, topic)
	time.Sleep(5 * time.Second)

	p := NewKafkaPublisher(topic, brokerAddr)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	event := testEvent()
	require.NoError(t, p.PublishOrderConfirmed(ctx, event))

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  []string{brokerAddr},
		Topic:    topic,
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.ConfirmationID, string(msg.Key))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, event.ConfirmationID, payload["confirmation_id"])
	assert.Equal(t, 30.0, payload["total_order_price"])
}
