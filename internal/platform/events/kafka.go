// Package events publishes restriction audit events to Kafka for downstream
// consumers (reporting, SIEM). Publishing is fire-and-forget: the audit
// trail's source of truth is the database, Kafka is a side channel.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"shiprestrict/internal/restriction/models"
)

// OrderAuditedTopic carries one message per recorded order verdict.
const OrderAuditedTopic = "restriction.order.audited"

// KafkaPublisher wraps a franz-go client.
type KafkaPublisher struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewKafkaPublisher connects to the given brokers. Returns (nil, nil) when no
// brokers are configured so callers can wire it unconditionally.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(OrderAuditedTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, logger: logger}, nil
}

// PublishOrderAudited emits one event per audit entry, keyed by order id so
// per-order history stays in partition order. Produce errors are logged, not
// returned: a broker outage must not affect order creation.
func (p *KafkaPublisher) PublishOrderAudited(ctx context.Context, entry *models.AuditEntry) {
	if p == nil || entry == nil {
		return
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		p.warn(ctx, "encode audit event", err)
		return
	}

	record := &kgo.Record{
		Topic: OrderAuditedTopic,
		Key:   []byte(fmt.Sprintf("%d", entry.OrderID)),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.warn(ctx, "produce audit event", err)
		}
	})
}

// Close flushes pending records and releases the client.
func (p *KafkaPublisher) Close() {
	if p == nil {
		return
	}
	p.client.Close()
}

func (p *KafkaPublisher) warn(ctx context.Context, msg string, err error) {
	if p.logger != nil {
		p.logger.WarnContext(ctx, msg, "error", err)
	}
}
