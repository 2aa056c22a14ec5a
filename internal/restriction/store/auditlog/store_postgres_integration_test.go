//go:build integration

package auditlog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"shiprestrict/internal/restriction/models"
	"shiprestrict/internal/restriction/store/auditlog"
	"shiprestrict/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *auditlog.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = auditlog.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "restriction_audit_log"))
}

func (s *PostgresStoreSuite) entry(orderID int64, createdAt time.Time) *models.AuditEntry {
	return &models.AuditEntry{
		ID:          uuid.New(),
		OrderID:     orderID,
		Country:     "US",
		Allowed:     []string{"US", "CA"},
		Excluded:    []string{"RU"},
		ModeKey:     models.GlobalModeKey,
		MethodLabel: "GLOBAL",
		Status:      "Passed",
		CreatedAt:   createdAt,
	}
}

func (s *PostgresStoreSuite) TestAppendAndListRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	in := s.entry(42, now)
	in.Status = "Flagged: Excluded"
	s.Require().NoError(s.store.Append(ctx, in))

	out, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal(in.ID, out[0].ID)
	s.Equal(int64(42), out[0].OrderID)
	s.Equal([]string{"US", "CA"}, out[0].Allowed)
	s.Equal([]string{"RU"}, out[0].Excluded)
	s.Equal("Flagged: Excluded", out[0].Status)
	s.WithinDuration(now, out[0].CreatedAt, time.Millisecond)
}

func (s *PostgresStoreSuite) TestListRecentNewestFirstWithLimit() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i := int64(1); i <= 5; i++ {
		s.Require().NoError(s.store.Append(ctx, s.entry(i, base.Add(time.Duration(i)*time.Second))))
	}

	out, err := s.store.ListRecent(ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(out, 3)
	s.Equal(int64(5), out[0].OrderID)
	s.Equal(int64(4), out[1].OrderID)
	s.Equal(int64(3), out[2].OrderID)
}

func (s *PostgresStoreSuite) TestZeroLimitReturnsNothing() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, s.entry(1, time.Now().UTC())))

	out, err := s.store.ListRecent(ctx, 0)
	s.Require().NoError(err)
	s.Empty(out)
}
