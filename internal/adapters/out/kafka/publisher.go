// Package kafka publishes order transition events to a Kafka topic.
// Events are emitted after the owning transaction commits; delivery is
// best-effort and consumers must tolerate gaps.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/IBM/sarama"
)

// transitionMessage is the wire form of a transition event.
type transitionMessage struct {
	OrderID    string  `json:"order_id"`
	SubOrderID *string `json:"sub_order_id,omitempty"`
	OldStatus  string  `json:"old_status"`
	NewStatus  string  `json:"new_status"`
	Actor      string  `json:"actor"`
	OccurredAt string  `json:"occurred_at"`
}

// TransitionPublisher implements ports.EventPublisher on top of a Kafka
// sync producer. Messages are keyed by order ID so all transitions of one
// order land on the same partition in commit order.
type TransitionPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewTransitionPublisher connects a sync producer to the given brokers.
// Brokers is a comma-separated list of host:port pairs.
func NewTransitionPublisher(brokers, topic string) (*TransitionPublisher, error) {
	if brokers == "" {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &TransitionPublisher{
		producer: producer,
		topic:    topic,
	}, nil
}

// Publish sends one transition event to the configured topic.
func (p *TransitionPublisher) Publish(_ context.Context, event ports.TransitionEvent) error {
	msg := transitionMessage{
		OrderID:    event.OrderID.String(),
		OldStatus:  event.OldStatus,
		NewStatus:  event.NewStatus,
		Actor:      event.Actor,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if event.SubOrderID != nil {
		subOrderID := event.SubOrderID.String()
		msg.SubOrderID = &subOrderID
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode transition event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID.String()),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to send transition event: %w", err)
	}

	return nil
}

// Close shuts down the underlying producer.
func (p *TransitionPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
