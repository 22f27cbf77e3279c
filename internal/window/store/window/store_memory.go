package window

import (
	"context"
	"sync"

	"cloud.google.com/go/civil"

	"reviewcycle/internal/window/models"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/sentinel"
)

type key struct {
	cycle   id.CycleID
	quarter id.Quarter
}

// InMemory stores windows in maps. Records are copied on the way in and out so
// callers never share pointers with the store.
type InMemory struct {
	mu      sync.RWMutex
	reviews map[key]models.ReviewWindow
	goals   map[key]models.GoalWindow
}

func NewInMemory() *InMemory {
	return &InMemory{
		reviews: make(map[key]models.ReviewWindow),
		goals:   make(map[key]models.GoalWindow),
	}
}

func (s *InMemory) FindReviewWindow(_ context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.ReviewWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.reviews[key{cycleID, quarter}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := copyReview(w)
	return &out, nil
}

func (s *InMemory) SaveReviewWindow(_ context.Context, w *models.ReviewWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[key{w.CycleID, w.Quarter}] = copyReview(*w)
	return nil
}

func (s *InMemory) FindGoalWindow(_ context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.GoalWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.goals[key{cycleID, quarter}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := copyGoal(w)
	return &out, nil
}

func (s *InMemory) SaveGoalWindow(_ context.Context, w *models.GoalWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[key{w.CycleID, w.Quarter}] = copyGoal(*w)
	return nil
}

func copyReview(w models.ReviewWindow) models.ReviewWindow {
	w.SelfReviewStart = copyDate(w.SelfReviewStart)
	w.SelfReviewEnd = copyDate(w.SelfReviewEnd)
	return w
}

func copyGoal(w models.GoalWindow) models.GoalWindow {
	w.GoalSubmissionStart = copyDate(w.GoalSubmissionStart)
	w.GoalSubmissionEnd = copyDate(w.GoalSubmissionEnd)
	w.GoalApprovalStart = copyDate(w.GoalApprovalStart)
	w.GoalApprovalEnd = copyDate(w.GoalApprovalEnd)
	return w
}

func copyDate(d *civil.Date) *civil.Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
