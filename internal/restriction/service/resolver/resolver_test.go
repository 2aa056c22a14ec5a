package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiprestrict/internal/restriction/models"
	"shiprestrict/internal/restriction/store/rules"
	"shiprestrict/internal/restriction/store/settings"
)

type failingRuleStore struct{}

func (failingRuleStore) Get(context.Context, int) (*models.RuleSet, error) {
	return nil, errors.New("db down")
}

func (failingRuleStore) Put(context.Context, int, *models.RuleSet) error {
	return errors.New("db down")
}

type failingSettingsStore struct{}

func (failingSettingsStore) ActiveMode(context.Context) (string, error) {
	return "", errors.New("db down")
}

func (failingSettingsStore) SetActiveMode(context.Context, string) error {
	return errors.New("db down")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, ruleStore rules.Store, settingStore settings.Store) *Service {
	t.Helper()
	svc, err := New(ruleStore, settingStore, WithLogger(discardLogger()))
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Run("nil rule store returns error", func(t *testing.T) {
		_, err := New(nil, settings.NewMemory())
		assert.Error(t, err)
	})

	t.Run("nil settings store returns error", func(t *testing.T) {
		_, err := New(rules.NewMemory(), nil)
		assert.Error(t, err)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfigured mode resolves to empty global rules", func(t *testing.T) {
		svc := newService(t, rules.NewMemory(), settings.NewMemory())
		rs := svc.Resolve(ctx)
		assert.Equal(t, models.GlobalModeKey, rs.ModeKey)
		assert.Empty(t, rs.Allowed)
		assert.Empty(t, rs.Excluded)
	})

	t.Run("global token resolves the global record", func(t *testing.T) {
		ruleStore := rules.NewMemory()
		settingStore := settings.NewMemory()
		require.NoError(t, ruleStore.Put(ctx, models.GlobalModeKey, &models.RuleSet{Excluded: []string{"CA"}}))
		require.NoError(t, settingStore.SetActiveMode(ctx, "global"))

		svc := newService(t, ruleStore, settingStore)
		rs := svc.Resolve(ctx)
		assert.Equal(t, []string{"CA"}, rs.Excluded)
	})

	t.Run("numeric mode resolves the method record", func(t *testing.T) {
		ruleStore := rules.NewMemory()
		settingStore := settings.NewMemory()
		require.NoError(t, ruleStore.Put(ctx, 5, &models.RuleSet{Allowed: []string{"US"}}))
		require.NoError(t, settingStore.SetActiveMode(ctx, "5"))

		svc := newService(t, ruleStore, settingStore)
		rs := svc.Resolve(ctx)
		assert.Equal(t, 5, rs.ModeKey)
		assert.Equal(t, []string{"US"}, rs.Allowed)
	})

	t.Run("garbage mode degrades to global without error", func(t *testing.T) {
		ruleStore := rules.NewMemory()
		settingStore := settings.NewMemory()
		require.NoError(t, ruleStore.Put(ctx, models.GlobalModeKey, &models.RuleSet{Excluded: []string{"CA"}}))
		require.NoError(t, settingStore.SetActiveMode(ctx, "definitely-not-a-mode"))

		svc := newService(t, ruleStore, settingStore)
		rs := svc.Resolve(ctx)
		assert.Equal(t, models.GlobalModeKey, rs.ModeKey)
		assert.Equal(t, []string{"CA"}, rs.Excluded)
	})

	t.Run("settings store failure fails open to global", func(t *testing.T) {
		svc := newService(t, rules.NewMemory(), failingSettingsStore{})
		rs := svc.Resolve(ctx)
		assert.Equal(t, models.GlobalModeKey, rs.ModeKey)
	})

	t.Run("rule store failure fails open to no rules", func(t *testing.T) {
		settingStore := settings.NewMemory()
		require.NoError(t, settingStore.SetActiveMode(ctx, "3"))

		svc := newService(t, failingRuleStore{}, settingStore)
		rs := svc.Resolve(ctx)
		assert.Equal(t, 3, rs.ModeKey)
		assert.Empty(t, rs.Allowed)
		assert.Empty(t, rs.Excluded)
	})
}

func TestActiveModeKey(t *testing.T) {
	ctx := context.Background()

	t.Run("numeric string", func(t *testing.T) {
		settingStore := settings.NewMemory()
		require.NoError(t, settingStore.SetActiveMode(ctx, "12"))
		svc := newService(t, rules.NewMemory(), settingStore)
		assert.Equal(t, 12, svc.ActiveModeKey(ctx))
	})

	t.Run("empty and garbage map to global", func(t *testing.T) {
		settingStore := settings.NewMemory()
		svc := newService(t, rules.NewMemory(), settingStore)
		assert.Equal(t, models.GlobalModeKey, svc.ActiveModeKey(ctx))

		require.NoError(t, settingStore.SetActiveMode(ctx, "-4"))
		assert.Equal(t, models.GlobalModeKey, svc.ActiveModeKey(ctx))
	})

	t.Run("store failure maps to global", func(t *testing.T) {
		svc := newService(t, rules.NewMemory(), failingSettingsStore{})
		assert.Equal(t, models.GlobalModeKey, svc.ActiveModeKey(ctx))
	})
}
