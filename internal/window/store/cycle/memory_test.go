package cycle

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

type CycleStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestCycleStoreSuite(t *testing.T) {
	suite.Run(t, new(CycleStoreSuite))
}

func (s *CycleStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *CycleStoreSuite) newCycle(name string) *models.Cycle {
	c, err := models.NewCycle(id.NewCycleID(), name, 2026,
		civil.Date{Year: 2026, Month: time.January, Day: 1},
		civil.Date{Year: 2026, Month: time.December, Day: 31},
		models.CycleSchedule{}, time.Now())
	s.Require().NoError(err)
	return c
}

func (s *CycleStoreSuite) TestCreateAndFind() {
	c := s.newCycle("FY26")
	s.Require().NoError(s.store.Create(s.ctx, c))

	found, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.Name, found.Name)

	s.ErrorIs(s.store.Create(s.ctx, c), sentinel.ErrConflict)

	_, err = s.store.FindByID(s.ctx, id.NewCycleID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CycleStoreSuite) TestSingleActiveCycle() {
	first := s.newCycle("FY26")
	second := s.newCycle("FY27")
	s.Require().NoError(s.store.Create(s.ctx, first))
	s.Require().NoError(s.store.Create(s.ctx, second))

	_, err := s.store.FindActive(s.ctx)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	first.ApplyTransition(models.CycleStatusActive, time.Now())
	s.Require().NoError(s.store.Update(s.ctx, first))

	active, err := s.store.FindActive(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.ID, active.ID)

	second.ApplyTransition(models.CycleStatusActive, time.Now())
	s.ErrorIs(s.store.Update(s.ctx, second), sentinel.ErrConflict)
}

func (s *CycleStoreSuite) TestUpdateMissing() {
	s.ErrorIs(s.store.Update(s.ctx, s.newCycle("ghost")), sentinel.ErrNotFound)
}
