//go:build integration

package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"reviewcycle/migrations"
	"reviewcycle/pkg/testutil/containers"
)

type MigrationsSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
}

func TestMigrationsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MigrationsSuite))
}

func (s *MigrationsSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
}

func (s *MigrationsSuite) TestApplyRecordsVersion() {
	ctx := context.Background()
	v, err := migrations.Version(ctx, s.postgres.DB)
	s.Require().NoError(err)
	s.Equal(int64(1), v, "the container is migrated on start")

	var applied int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM goose_db_version WHERE version_id = 1 AND is_applied`).Scan(&applied))
	s.Equal(1, applied)
}

func (s *MigrationsSuite) TestApplyIsIdempotent() {
	ctx := context.Background()
	v, err := migrations.Apply(ctx, s.postgres.DB)
	s.Require().NoError(err)
	s.Equal(int64(1), v)

	var rows int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM goose_db_version WHERE version_id = 1`).Scan(&rows))
	s.Equal(1, rows, "a second Apply must not re-run the migration")
}
