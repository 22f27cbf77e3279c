package window

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/suite"

	"reviewcycle/internal/window/models"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/sentinel"
)

type WindowStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestWindowStoreSuite(t *testing.T) {
	suite.Run(t, new(WindowStoreSuite))
}

func (s *WindowStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *WindowStoreSuite) TestReviewWindowRoundTrip() {
	cycleID := id.NewCycleID()
	selfStart := civil.Date{Year: 2026, Month: time.May, Day: 1}
	w := &models.ReviewWindow{
		CycleID:            cycleID,
		Quarter:            id.Q2,
		QuarterStart:       civil.Date{Year: 2026, Month: time.April, Day: 1},
		QuarterEnd:         civil.Date{Year: 2026, Month: time.June, Day: 30},
		SelfReviewStart:    &selfStart,
		ManagerReviewStart: civil.Date{Year: 2026, Month: time.June, Day: 30},
		ManagerReviewEnd:   civil.Date{Year: 2026, Month: time.June, Day: 30},
	}

	s.Run("returns ErrNotFound before save", func() {
		_, err := s.store.FindReviewWindow(s.ctx, cycleID, id.Q2)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("saves and finds", func() {
		s.Require().NoError(s.store.SaveReviewWindow(s.ctx, w))
		found, err := s.store.FindReviewWindow(s.ctx, cycleID, id.Q2)
		s.Require().NoError(err)
		s.True(found.SameSchedule(*w))
	})

	s.Run("returned record is a copy", func() {
		found, err := s.store.FindReviewWindow(s.ctx, cycleID, id.Q2)
		s.Require().NoError(err)
		*found.SelfReviewStart = civil.Date{Year: 2026, Month: time.April, Day: 2}

		again, err := s.store.FindReviewWindow(s.ctx, cycleID, id.Q2)
		s.Require().NoError(err)
		s.Equal(selfStart, *again.SelfReviewStart)
	})

	s.Run("quarters are independent", func() {
		_, err := s.store.FindReviewWindow(s.ctx, cycleID, id.Q3)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *WindowStoreSuite) TestGoalWindowReplace() {
	cycleID := id.NewCycleID()
	w := &models.GoalWindow{CycleID: cycleID, Quarter: id.Q1, Status: models.GoalWindowDraft}
	s.Require().NoError(s.store.SaveGoalWindow(s.ctx, w))

	w.Status = models.GoalWindowOpen
	w.AllowLateGoalSubmission = true
	s.Require().NoError(s.store.SaveGoalWindow(s.ctx, w))

	found, err := s.store.FindGoalWindow(s.ctx, cycleID, id.Q1)
	s.Require().NoError(err)
	s.Equal(models.GoalWindowOpen, found.Status)
	s.True(found.AllowLateGoalSubmission)
}
