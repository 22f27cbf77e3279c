package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"reviewcycle/internal/window/models"
	cyclestore "reviewcycle/internal/window/store/cycle"
	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/audit"
	auditmemory "reviewcycle/pkg/platform/audit/store/memory"
	"reviewcycle/pkg/requestcontext"
)

type CycleServiceSuite struct {
	suite.Suite
	store   *cyclestore.InMemory
	auditor *auditmemory.InMemoryStore
	service *CycleService
	ctx     context.Context
}

func TestCycleServiceSuite(t *testing.T) {
	suite.Run(t, new(CycleServiceSuite))
}

func (s *CycleServiceSuite) SetupTest() {
	s.store = cyclestore.NewInMemory()
	s.auditor = auditmemory.NewInMemoryStore()
	var err error
	s.service, err = NewCycleService(s.store,
		WithCycleLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithCycleAuditStore(s.auditor),
	)
	s.Require().NoError(err)
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC))
	s.ctx = requestcontext.WithActor(ctx, "hr-admin")
}

func (s *CycleServiceSuite) create(name string) *models.Cycle {
	c, err := s.service.CreateCycle(s.ctx, &models.CreateCycleRequest{
		Name:       name,
		FiscalYear: 2026,
		StartDate:  dp(time.January, 1),
		EndDate:    dp(time.December, 31),
	})
	s.Require().NoError(err)
	return c
}

func (s *CycleServiceSuite) TestCreateCycle() {
	s.Run("creates a draft cycle and records the event", func() {
		c := s.create("  FY26  ")
		s.Equal("FY26", c.Name)
		s.Equal(models.CycleStatusDraft, c.Status)

		events, err := s.auditor.ListByCycle(s.ctx, c.ID.String())
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventCycleCreated), events[0].Action)
		s.Equal("hr-admin", events[0].ActorID)
	})

	s.Run("missing name is a validation error", func() {
		_, err := s.service.CreateCycle(s.ctx, &models.CreateCycleRequest{
			FiscalYear: 2026,
			StartDate:  dp(time.January, 1),
			EndDate:    dp(time.December, 31),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("start after end is a validation error", func() {
		_, err := s.service.CreateCycle(s.ctx, &models.CreateCycleRequest{
			Name:       "backwards",
			FiscalYear: 2026,
			StartDate:  dp(time.December, 31),
			EndDate:    dp(time.January, 1),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unordered year-end self-review pair is a validation error", func() {
		_, err := s.service.CreateCycle(s.ctx, &models.CreateCycleRequest{
			Name:                   "bad year end",
			FiscalYear:             2026,
			StartDate:              dp(time.January, 1),
			EndDate:                dp(time.December, 31),
			YearEndSelfReviewStart: dp(time.December, 20),
			YearEndSelfReviewEnd:   dp(time.December, 1),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *CycleServiceSuite) TestActivation() {
	first := s.create("FY26")
	second := s.create("FY27")

	_, err := s.service.GetActiveCycle(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	activated, err := s.service.TransitionCycle(s.ctx, first.ID, &models.TransitionCycleRequest{Status: "Active"})
	s.Require().NoError(err)
	s.Equal(models.CycleStatusActive, activated.Status)

	active, err := s.service.GetActiveCycle(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.ID, active.ID)

	_, err = s.service.TransitionCycle(s.ctx, second.ID, &models.TransitionCycleRequest{Status: models.CycleStatusActive})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	stored, err := s.service.GetCycle(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal(models.CycleStatusDraft, stored.Status)
}

func (s *CycleServiceSuite) TestIllegalTransitions() {
	c := s.create("FY26")

	_, err := s.service.TransitionCycle(s.ctx, c.ID, &models.TransitionCycleRequest{Status: models.CycleStatusClosed})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.TransitionCycle(s.ctx, c.ID, &models.TransitionCycleRequest{Status: "paused"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.TransitionCycle(s.ctx, id.NewCycleID(), &models.TransitionCycleRequest{Status: models.CycleStatusActive})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *CycleServiceSuite) TestUpdateSchedule() {
	c := s.create("FY26")
	later := requestcontext.WithTime(s.ctx, time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC))

	s.Run("sets the year-end self-review window", func() {
		got, err := s.service.UpdateSchedule(later, c.ID, &models.UpdateCycleRequest{
			YearEndSelfReviewStart: dp(time.December, 1),
			YearEndSelfReviewEnd:   dp(time.December, 15),
		})
		s.Require().NoError(err)
		s.Equal(d(time.December, 15), *got.YearEndSelfReviewEnd)
		s.Equal(models.CycleStatusDraft, got.Status)
		s.Equal(c.CreatedAt, got.CreatedAt)
		s.True(got.UpdatedAt.After(c.UpdatedAt))

		stored, err := s.service.GetCycle(s.ctx, c.ID)
		s.Require().NoError(err)
		start, end := stored.YearEndSelfReview()
		s.Equal(d(time.December, 1), *start)
		s.Equal(d(time.December, 15), *end)
	})

	s.Run("one side is checked against the stored other side", func() {
		_, err := s.service.UpdateSchedule(later, c.ID, &models.UpdateCycleRequest{
			YearEndSelfReviewStart: dp(time.December, 20),
		})
		s.Require().Error(err)
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.Equal("year_end_self_review_start", de.Details.Field)

		stored, err := s.service.GetCycle(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(d(time.December, 1), *stored.YearEndSelfReviewStart)
	})

	s.Run("cycle start after end is rejected", func() {
		_, err := s.service.UpdateSchedule(later, c.ID, &models.UpdateCycleRequest{
			StartDate: dp(time.December, 31),
			EndDate:   dp(time.December, 30),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("blank name is rejected", func() {
		blank := "   "
		_, err := s.service.UpdateSchedule(later, c.ID, &models.UpdateCycleRequest{Name: &blank})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty update is a bad request", func() {
		_, err := s.service.UpdateSchedule(later, c.ID, &models.UpdateCycleRequest{})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown cycle is not found", func() {
		_, err := s.service.UpdateSchedule(later, id.NewCycleID(), &models.UpdateCycleRequest{ReleaseDate: dp(time.December, 31)})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("an unchanged schedule is not audited", func() {
		_, err := s.service.UpdateSchedule(later, c.ID, &models.UpdateCycleRequest{YearEndSelfReviewEnd: dp(time.December, 15)})
		s.Require().NoError(err)
	})

	events, err := s.auditor.ListByCycle(s.ctx, c.ID.String())
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventCycleScheduleUpdated), events[1].Action)
}
