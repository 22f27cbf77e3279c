package cycle

import (
	"context"
	"sync"

	"reviewcycle/internal/window/models"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/sentinel"
)

// InMemory keeps cycles in a map and enforces the single-active-cycle rule
// that the Postgres schema enforces with a partial unique index.
type InMemory struct {
	mu     sync.RWMutex
	cycles map[id.CycleID]models.Cycle
}

func NewInMemory() *InMemory {
	return &InMemory{cycles: make(map[id.CycleID]models.Cycle)}
}

func (s *InMemory) Create(_ context.Context, c *models.Cycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cycles[c.ID]; ok {
		return sentinel.ErrConflict
	}
	if c.IsActive() && s.activeOtherThan(c.ID) {
		return sentinel.ErrConflict
	}
	s.cycles[c.ID] = *c
	return nil
}

func (s *InMemory) FindByID(_ context.Context, cycleID id.CycleID) (*models.Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cycles[cycleID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemory) FindActive(_ context.Context) (*models.Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cycles {
		if c.IsActive() {
			return &c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Update(_ context.Context, c *models.Cycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cycles[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if c.IsActive() && s.activeOtherThan(c.ID) {
		return sentinel.ErrConflict
	}
	s.cycles[c.ID] = *c
	return nil
}

func (s *InMemory) activeOtherThan(cycleID id.CycleID) bool {
	for otherID, other := range s.cycles {
		if otherID != cycleID && other.IsActive() {
			return true
		}
	}
	return false
}
