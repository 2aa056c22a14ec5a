//go:build integration

package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"shiprestrict/internal/platform/postgres"
	"shiprestrict/internal/restriction/models"
	"shiprestrict/internal/restriction/service/settings"
	"shiprestrict/internal/restriction/store/methods"
	"shiprestrict/internal/restriction/store/rules"
	settingsstore "shiprestrict/internal/restriction/store/settings"
	"shiprestrict/pkg/testutil/containers"
)

// PostgresSaveSuite runs the save path against real stores and a real
// transaction, covering the atomicity the unit tests can only fake.
type PostgresSaveSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	svc      *settings.Service
}

func TestPostgresSaveSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSaveSuite))
}

func (s *PostgresSaveSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())

	db := &postgres.DB{DB: s.postgres.DB}
	svc, err := settings.New(
		rules.NewPostgres(s.postgres.DB),
		settingsstore.NewPostgres(s.postgres.DB),
		methods.NewPostgres(s.postgres.DB),
		settings.WithTxRunner(db),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *PostgresSaveSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx,
		"restriction_rules", "restriction_settings", "shipping_methods"))

	_, err := s.postgres.DB.ExecContext(ctx, `
		INSERT INTO shipping_methods (id, title, type, is_enabled) VALUES
			(5, 'Express Shipping', 'flat_rate', TRUE),
			(6, 'Standard Ground', 'flat_rate', TRUE)
	`)
	s.Require().NoError(err)
}

func (s *PostgresSaveSuite) TestSaveAppliesAllThreeEffects() {
	ctx := context.Background()

	rs, warnings, err := s.svc.Save(ctx, &models.SaveSettingsRequest{
		Mode:     "5",
		Allowed:  []string{"us", "US", " gb "},
		Excluded: []string{"ru"},
	})
	s.Require().NoError(err)
	s.Empty(warnings)
	s.Equal([]string{"US", "GB"}, rs.Allowed)

	stored, err := s.svc.Settings(ctx, "5")
	s.Require().NoError(err)
	s.Equal([]string{"US", "GB"}, stored.Allowed)
	s.Equal([]string{"RU"}, stored.Excluded)

	var mode string
	err = s.postgres.DB.QueryRowContext(ctx,
		"SELECT value FROM restriction_settings WHERE name = 'restriction_mode'").Scan(&mode)
	s.Require().NoError(err)
	s.Equal("5", mode)

	list, err := s.svc.ShippingMethods(ctx)
	s.Require().NoError(err)
	for _, m := range list {
		s.Equal(m.ID == 5, m.IsEnabled)
	}
}

func (s *PostgresSaveSuite) TestFailedSaveRollsBackEverything() {
	ctx := context.Background()

	_, _, err := s.svc.Save(ctx, &models.SaveSettingsRequest{Mode: "global", Allowed: []string{"US"}})
	s.Require().NoError(err)

	// Break the enablement step mid-save; the rule write before it must not
	// survive the rollback.
	_, err = s.postgres.DB.ExecContext(ctx, "ALTER TABLE shipping_methods RENAME TO shipping_methods_hidden")
	s.Require().NoError(err)
	defer func() {
		_, err := s.postgres.DB.ExecContext(ctx, "ALTER TABLE shipping_methods_hidden RENAME TO shipping_methods")
		s.Require().NoError(err)
	}()

	_, _, err = s.svc.Save(ctx, &models.SaveSettingsRequest{Mode: "6", Allowed: []string{"JP"}})
	s.Require().Error(err)

	var ruleCount int
	err = s.postgres.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM restriction_rules WHERE method_id = 6").Scan(&ruleCount)
	s.Require().NoError(err)
	s.Zero(ruleCount, "rule write must roll back with the failed save")

	var mode string
	err = s.postgres.DB.QueryRowContext(ctx,
		"SELECT value FROM restriction_settings WHERE name = 'restriction_mode'").Scan(&mode)
	s.Require().NoError(err)
	s.Equal("global", mode, "active mode must stay on the last successful save")
}
