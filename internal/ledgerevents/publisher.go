// Package ledgerevents publishes committed-transaction events.
package ledgerevents

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mae-finance/wallet/internal/domain"
)

// TransactionCompleted is the wire event emitted after a successful commit.
type TransactionCompleted struct {
	TransactionID string    `json:"transaction_id"`
	Owner         string    `json:"owner"`
	Direction     string    `json:"direction"`
	Amount        string    `json:"amount"`
	Counterparty  string    `json:"counterparty,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// KafkaPublisher writes TransactionCompleted events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns a KafkaPublisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishTransactionCompleted writes the event keyed by owner, so per-account
// ordering survives partitioning.
func (p *KafkaPublisher) PublishTransactionCompleted(ctx context.Context, txn domain.Transaction) error {
	data, err := json.Marshal(TransactionCompleted{
		TransactionID: txn.ID.String(),
		Owner:         txn.Owner,
		Direction:     string(txn.Direction),
		Amount:        txn.Amount.String(),
		Counterparty:  txn.Counterparty,
		OccurredAt:    txn.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(txn.Owner),
		Value: data,
	})
}

// Close releases the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards events. It backs tests and broker-free local runs.
type NoopPublisher struct{}

// PublishTransactionCompleted discards the event.
func (NoopPublisher) PublishTransactionCompleted(ctx context.Context, txn domain.Transaction) error {
	return nil
}
