// Package orderaudit records one immutable restriction decision per created
// order.
package orderaudit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"shiprestrict/internal/restriction/evaluator"
	"shiprestrict/internal/restriction/metrics"
	"shiprestrict/internal/restriction/models"
	"shiprestrict/internal/restriction/observability"
	"shiprestrict/internal/restriction/service/resolver"
	"shiprestrict/internal/restriction/store/auditlog"
	"shiprestrict/pkg/requestcontext"
)

// EventPublisher fans a recorded entry out to interested consumers.
// Implementations must be fire-and-forget.
type EventPublisher interface {
	PublishOrderAudited(ctx context.Context, entry *models.AuditEntry)
}

// Service resolves rules at order-creation time, evaluates the order's
// country, and appends the audit entry. It sits outside the order's
// atomicity boundary: a failed write here is reported, never propagated into
// the order flow.
type Service struct {
	resolver  *resolver.Service
	audit     auditlog.Store
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(ruleResolver *resolver.Service, auditStore auditlog.Store, opts ...Option) (*Service, error) {
	if ruleResolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if auditStore == nil {
		return nil, fmt.Errorf("audit store is required")
	}

	svc := &Service{resolver: ruleResolver, audit: auditStore}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Record writes the audit entry for one created order. The entry snapshots
// the lists and mode at evaluation time; later rule edits never touch it.
// A missing order id is terminal — there is no key to attach the entry to —
// so the call logs and returns without writing. Every other missing field
// degrades to a placeholder.
func (s *Service) Record(ctx context.Context, order models.OrderSnapshot) error {
	if order.ID == 0 {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "order created event without order id, skipping audit entry")
		}
		return nil
	}

	rs := s.resolver.Resolve(ctx)
	country := order.Country()
	verdict := evaluator.Evaluate(rs, country)
	s.metrics.ObserveVerdict(outcome(verdict))

	entry := &models.AuditEntry{
		ID:          uuid.New(),
		OrderID:     order.ID,
		Country:     country,
		Allowed:     append([]string{}, rs.Allowed...),
		Excluded:    append([]string{}, rs.Excluded...),
		ModeKey:     rs.ModeKey,
		MethodLabel: methodLabel(order, rs.ModeKey),
		Status:      verdict.Status(),
		CreatedAt:   requestcontext.Now(ctx),
	}

	if err := s.audit.Append(ctx, entry); err != nil {
		s.metrics.ObserveAuditWriteFailure()
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "audit entry write failed",
				"order_id", order.ID, "error", err)
		}
		return fmt.Errorf("record order audit: %w", err)
	}

	if s.publisher != nil {
		s.publisher.PublishOrderAudited(ctx, entry)
	}

	observability.LogAudit(ctx, s.logger, "order_restriction_recorded",
		"order_id", order.ID,
		"country", country,
		"status", entry.Status,
	)
	return nil
}

func methodLabel(order models.OrderSnapshot, modeKey int) string {
	if order.ShippingMethodTitle != "" {
		return order.ShippingMethodTitle
	}
	return models.ModeLabel(modeKey)
}

func outcome(v models.Verdict) string {
	if v.Passed {
		return "passed"
	}
	return string(v.Reason)
}
