// Package checkout serves the storefront-facing hooks: live country
// validation, shipping method filtering, and the optional pre-create hard
// block. All three run against the same resolver and evaluator as the order
// audit, so the verdicts can never disagree for the same inputs.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shiprestrict/internal/restriction/evaluator"
	"shiprestrict/internal/restriction/methodfilter"
	"shiprestrict/internal/restriction/metrics"
	"shiprestrict/internal/restriction/models"
	"shiprestrict/internal/restriction/service/resolver"
	"shiprestrict/internal/restriction/store/methods"
	"shiprestrict/pkg/platform/sentinel"
)

// CountryFieldPath is the error-map key this service contributes on the
// checkout validation hook.
const CountryFieldPath = "billing_address.country"

// Storefront-facing block messages.
const (
	msgExcluded   = "We do not ship to this country."
	msgNotAllowed = "This country is not allowed for shipping."
)

// Service answers checkout-time questions.
type Service struct {
	resolver *resolver.Service
	methods  methods.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(ruleResolver *resolver.Service, methodStore methods.Store, opts ...Option) (*Service, error) {
	if ruleResolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if methodStore == nil {
		return nil, fmt.Errorf("method store is required")
	}

	svc := &Service{resolver: ruleResolver, methods: methodStore}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ValidateCountry contributes to the platform's checkout error map. The map
// gains exactly one entry when the country is blocked and stays empty
// otherwise.
func (s *Service) ValidateCountry(ctx context.Context, country string) map[string]string {
	out := map[string]string{}
	verdict := evaluator.Evaluate(s.resolver.Resolve(ctx), country)
	if verdict.Passed {
		return out
	}
	if verdict.Reason == models.ReasonExcluded {
		out[CountryFieldPath] = msgExcluded
	} else {
		out[CountryFieldPath] = msgNotAllowed
	}
	return out
}

// FilterMethods narrows the candidate shipping methods to those eligible
// under the active mode. Zero matches yield an empty list, never the
// unfiltered input.
func (s *Service) FilterMethods(ctx context.Context, candidates []models.ShippingMethod) []models.ShippingMethod {
	modeKey := s.resolver.ActiveModeKey(ctx)
	if modeKey == models.GlobalModeKey {
		return candidates
	}

	active, err := s.methods.GetByID(ctx, modeKey)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) && s.logger != nil {
		s.logger.WarnContext(ctx, "active method lookup failed, filtering on id only",
			"method_id", modeKey, "error", err)
	}

	filtered := methodfilter.Filter(candidates, modeKey, active)
	s.metrics.ObserveFiltered(len(candidates) - len(filtered))
	return filtered
}

// PreCreateCheck is the hard-enforcement gate that runs before order
// persistence. Unlike the audit path it may abort order creation: the
// handler maps a blocked verdict to a 403.
func (s *Service) PreCreateCheck(ctx context.Context, order models.OrderSnapshot) models.Verdict {
	return evaluator.Evaluate(s.resolver.Resolve(ctx), order.Country())
}
