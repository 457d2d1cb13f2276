// Package kafka publishes committed order events to the fulfillment event
// stream. Messages are keyed by order ID so every consumer sees one order's
// events in commit order.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// eventMessage is the wire representation of an order event.
type eventMessage struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	Type       string    `json:"type"`
	SupplierID *string   `json:"supplierId,omitempty"`
	SKUs       []string  `json:"skus,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher implements OrderEventPublisher on top of a kafka.Writer.
// Publishing happens after commit and is best effort; the caller bounds the
// context and logs failures.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher writing to one topic on the given brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// Publish writes one event to the stream, keyed by order ID.
func (p *Publisher) Publish(ctx context.Context, event ports.OrderEvent) error {
	message := eventMessage{
		ID:         event.ID.String(),
		OrderID:    event.OrderID.String(),
		Type:       string(event.Type),
		SKUs:       event.SKUs,
		OccurredAt: event.OccurredAt,
	}
	if event.SupplierID != nil {
		supplierID := event.SupplierID.String()
		message.SupplierID = &supplierID
	}

	value, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(message.OrderID),
		Value: value,
		Time:  event.OccurredAt,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
