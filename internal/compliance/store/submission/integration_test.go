//go:build integration

package submission_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"reviewcycle/internal/compliance/metrics"
	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/compliance/ports/mocks"
	"reviewcycle/internal/compliance/store/submission"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/testutil/containers"
)

type PostgresSubmissionSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *submission.PostgresStore
	cycle    id.CycleID
	a, b, c  id.EmployeeID
}

func TestPostgresSubmissionSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSubmissionSuite))
}

func (s *PostgresSubmissionSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = submission.NewPostgres(s.postgres.DB)
}

func (s *PostgresSubmissionSuite) exec(query string, args ...any) {
	s.Require().NoError(s.postgres.Exec(context.Background(), query, args...))
}

func (s *PostgresSubmissionSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(),
		"goals", "quarterly_reviews", "year_end_reviews", "employees", "cycles"))

	s.cycle = id.NewCycleID()
	s.exec(`INSERT INTO cycles (id, name, fiscal_year, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, 'FY26', 2026, 'active', '2026-01-01', '2026-12-31', $2, $2)`, s.cycle.String(), time.Now())

	s.a, s.b, s.c = id.NewEmployeeID(), id.NewEmployeeID(), id.NewEmployeeID()
	for i, e := range []id.EmployeeID{s.a, s.b, s.c} {
		s.exec(`INSERT INTO employees (id, emp_code, full_name, join_date) VALUES ($1, $2, 'x', '2025-01-01')`,
			e.String(), string(rune('A'+i)))
	}
}

func (s *PostgresSubmissionSuite) TestQuarterlyAndYearEnd() {
	ctx := context.Background()
	review := `INSERT INTO quarterly_reviews (employee_id, cycle_id, quarter, self_review_status, manager_review_status)
		VALUES ($1, $2, $3, $4, $5)`
	s.exec(review, s.a.String(), s.cycle.String(), 1, "submitted", "approved")
	s.exec(review, s.b.String(), s.cycle.String(), 1, "submitted", "draft")
	s.exec(review, s.c.String(), s.cycle.String(), 2, "submitted", "draft")
	s.exec(`INSERT INTO year_end_reviews (employee_id, cycle_id, self_review_status, manager_review_status)
		VALUES ($1, $2, 'submitted', 'released')`, s.c.String(), s.cycle.String())

	submitted, err := s.store.SubmittedEmployeeIDs(ctx, s.cycle, id.Q1, models.KindSelfReview)
	s.Require().NoError(err)
	s.ElementsMatch([]id.EmployeeID{s.a, s.b}, submitted.IDs())

	reviewed, err := s.store.ReviewedEmployeeIDs(ctx, s.cycle, id.Q1, models.KindSelfReview)
	s.Require().NoError(err)
	s.ElementsMatch([]id.EmployeeID{s.a}, reviewed.IDs())

	yearEnd, err := s.store.ReviewedEmployeeIDs(ctx, s.cycle, id.YearEnd, models.KindSelfReview)
	s.Require().NoError(err)
	s.ElementsMatch([]id.EmployeeID{s.c}, yearEnd.IDs())
}

func (s *PostgresSubmissionSuite) TestGoals() {
	ctx := context.Background()
	goal := `INSERT INTO goals (id, employee_id, cycle_id, quarter, status) VALUES (gen_random_uuid(), $1, $2, $3, $4)`
	s.exec(goal, s.a.String(), s.cycle.String(), 1, "submitted")
	s.exec(goal, s.a.String(), s.cycle.String(), 1, "submitted")
	s.exec(goal, s.b.String(), s.cycle.String(), 1, "approved")
	s.exec(goal, s.c.String(), s.cycle.String(), 1, "draft")

	submitted, err := s.store.SubmittedEmployeeIDs(ctx, s.cycle, id.Q1, models.KindGoal)
	s.Require().NoError(err)
	s.ElementsMatch([]id.EmployeeID{s.a, s.b}, submitted.IDs())

	pending, err := s.store.PendingGoalApprovals(ctx, s.cycle, []id.EmployeeID{s.a, s.c})
	s.Require().NoError(err)
	s.Equal(2, pending)

	none, err := s.store.PendingGoalApprovals(ctx, s.cycle, nil)
	s.Require().NoError(err)
	s.Zero(none)
}

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestReadThrough() {
	ctx := context.Background()
	ctrl := gomock.NewController(s.T())
	cycle := id.NewCycleID()
	want := models.NewEmployeeSet(id.NewEmployeeID(), id.NewEmployeeID())

	next := mocks.NewMockSubmissionQuery(ctrl)
	next.EXPECT().ReviewedEmployeeIDs(gomock.Any(), cycle, id.Q3, models.KindSelfReview).Return(want, nil).Times(1)

	m := metrics.New(prometheus.NewRegistry())
	cache, err := submission.NewCache(next, s.redis.Client, submission.WithTTL(time.Minute), submission.WithCacheMetrics(m))
	s.Require().NoError(err)

	for range 2 {
		got, err := cache.ReviewedEmployeeIDs(ctx, cycle, id.Q3, models.KindSelfReview)
		s.Require().NoError(err)
		s.Equal(want, got)
	}
	s.Equal(1.0, promtest.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	s.Equal(1.0, promtest.ToFloat64(m.CacheLookups.WithLabelValues("hit")))

	keys, err := s.redis.Client.Keys(ctx, "reviewcycle:submissions:*").Result()
	s.Require().NoError(err)
	s.Require().Len(keys, 1)
	ttl, err := s.redis.Client.TTL(ctx, keys[0]).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}
