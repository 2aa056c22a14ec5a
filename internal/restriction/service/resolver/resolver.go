// Package resolver is the central read path: it turns the stored active mode
// into the effective rule set every checkout-time decision uses.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"shiprestrict/internal/restriction/models"
	"shiprestrict/internal/restriction/store/rules"
	"shiprestrict/internal/restriction/store/settings"
)

// Service resolves the active rule set. Reads fail open: a storage outage
// degrades to "no rules" so checkout stays available. That is an explicit
// product choice — an outage here must not block all sales — and it applies
// only to this read path; admin reads and writes propagate their errors.
type Service struct {
	rules    rules.Store
	settings settings.Store
	cache    *Cache
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCache enables the read-through cache.
func WithCache(cache *Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func New(ruleStore rules.Store, settingStore settings.Store, opts ...Option) (*Service, error) {
	if ruleStore == nil {
		return nil, fmt.Errorf("rule store is required")
	}
	if settingStore == nil {
		return nil, fmt.Errorf("settings store is required")
	}

	svc := &Service{rules: ruleStore, settings: settingStore}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Resolve returns the effective rule set for the currently active mode.
// The stored mode may be the "global" token, empty (never configured), or a
// numeric method id; anything else normalizes to global. Never returns an
// error and never panics on malformed configuration.
func (s *Service) Resolve(ctx context.Context) *models.RuleSet {
	if cached := s.cache.Get(ctx); cached != nil {
		return cached
	}

	mode, err := s.settings.ActiveMode(ctx)
	if err != nil {
		s.warn(ctx, "active mode read failed, defaulting to global", err)
		mode = models.ModeToken
	}
	modeKey := models.NormalizeModeKey(mode)

	rs, err := s.rules.Get(ctx, modeKey)
	if err != nil {
		s.warn(ctx, "rule read failed, continuing without rules", err)
		return models.EmptyRuleSet(modeKey)
	}

	s.cache.Set(ctx, rs)
	return rs
}

// ActiveModeKey returns the canonical key of the active mode, with the same
// degrade-to-global behavior as Resolve.
func (s *Service) ActiveModeKey(ctx context.Context) int {
	mode, err := s.settings.ActiveMode(ctx)
	if err != nil {
		s.warn(ctx, "active mode read failed, defaulting to global", err)
		return models.GlobalModeKey
	}
	return models.NormalizeModeKey(mode)
}

// InvalidateCache drops the cached rule set after a settings change.
func (s *Service) InvalidateCache(ctx context.Context) {
	s.cache.Invalidate(ctx)
}

func (s *Service) warn(ctx context.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, "error", err)
	}
}
