// Package settings implements the admin save path: the only writer of rule
// records, method enablement, and the active mode.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"shiprestrict/internal/restriction/metrics"
	"shiprestrict/internal/restriction/models"
	"shiprestrict/internal/restriction/observability"
	"shiprestrict/internal/restriction/store/methods"
	"shiprestrict/internal/restriction/store/rules"
	settingsstore "shiprestrict/internal/restriction/store/settings"
)

// TxRunner scopes a function to one atomic unit of work. The SQL-backed
// runner opens a transaction and threads it through context; the default
// passthrough just calls the function, which is what the memory stores need.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// CacheInvalidator drops cached rule reads after a save.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// Service validates and persists operator rule changes. A save applies three
// effects — rule upsert, method enablement sync, active mode switch — all or
// nothing: a partial save would leave the active mode pointing at lists that
// were never written.
type Service struct {
	rules    rules.Store
	settings settingsstore.Store
	methods  methods.Store
	tx       TxRunner
	cache    CacheInvalidator
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTxRunner(tx TxRunner) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithCacheInvalidator(cache CacheInvalidator) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(ruleStore rules.Store, settingStore settingsstore.Store, methodStore methods.Store, opts ...Option) (*Service, error) {
	if ruleStore == nil {
		return nil, fmt.Errorf("rule store is required")
	}
	if settingStore == nil {
		return nil, fmt.Errorf("settings store is required")
	}
	if methodStore == nil {
		return nil, fmt.Errorf("method store is required")
	}

	svc := &Service{
		rules:    ruleStore,
		settings: settingStore,
		methods:  methodStore,
		tx:       passthroughTx{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Save canonicalizes and persists a rule change. Returns the persisted rule
// set plus warnings for codes present in both lists (the exclusion wins at
// evaluation; the admin should still know).
func (s *Service) Save(ctx context.Context, req *models.SaveSettingsRequest) (*models.RuleSet, []string, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.metrics.ObserveSave("invalid")
		return nil, nil, err
	}

	rs := req.RuleSet()
	var warnings []string
	for _, code := range rs.Conflicts() {
		warnings = append(warnings, fmt.Sprintf("%s is in both lists; the exclusion wins", code))
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.rules.Put(ctx, rs.ModeKey, rs); err != nil {
			return fmt.Errorf("persist rules: %w", err)
		}
		if err := s.methods.SyncEnablement(ctx, rs.ModeKey); err != nil {
			return fmt.Errorf("sync method enablement: %w", err)
		}
		if err := s.settings.SetActiveMode(ctx, canonicalMode(rs.ModeKey)); err != nil {
			return fmt.Errorf("set active mode: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveSave("error")
		return nil, nil, fmt.Errorf("save settings: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateCache(ctx)
	}
	s.metrics.ObserveSave("ok")
	observability.LogAudit(ctx, s.logger, "restriction_settings_saved",
		"mode", canonicalMode(rs.ModeKey),
		"allowed_count", len(rs.Allowed),
		"excluded_count", len(rs.Excluded),
		"conflicts", len(warnings),
	)

	return rs, warnings, nil
}

// Settings returns the stored rule set for one mode, for the admin edit UI.
// Unlike the checkout read path, storage errors propagate.
func (s *Service) Settings(ctx context.Context, mode string) (*models.RuleSet, error) {
	modeKey, ok := models.ParseModeKey(mode)
	if !ok {
		return nil, fmt.Errorf("mode must be %q or a positive shipping method id", models.ModeToken)
	}
	rs, err := s.rules.Get(ctx, modeKey)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return rs, nil
}

// ShippingMethods lists the platform's methods for the admin mode dropdown.
func (s *Service) ShippingMethods(ctx context.Context) ([]models.ShippingMethod, error) {
	list, err := s.methods.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shipping methods: %w", err)
	}
	return list, nil
}

func canonicalMode(modeKey int) string {
	if modeKey == models.GlobalModeKey {
		return models.ModeToken
	}
	return strconv.Itoa(modeKey)
}
