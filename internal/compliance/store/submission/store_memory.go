package submission

import (
	"context"
	"sync"

	"reviewcycle/internal/compliance/models"
	id "reviewcycle/pkg/domain"
)

type reviewKey struct {
	cycle    id.CycleID
	quarter  id.Quarter
	employee id.EmployeeID
}

type reviewState struct {
	self    string
	manager string
}

type goal struct {
	cycle    id.CycleID
	quarter  id.Quarter
	employee id.EmployeeID
	status   string
}

// InMemory holds goal and review records for development and tests. quarter
// is YearEnd for year-end reviews.
type InMemory struct {
	mu      sync.RWMutex
	reviews map[reviewKey]reviewState
	goals   []goal
}

func NewInMemory() *InMemory {
	return &InMemory{reviews: make(map[reviewKey]reviewState)}
}

// SetReview records the self and manager statuses of one review.
func (s *InMemory) SetReview(cycleID id.CycleID, quarter id.Quarter, employeeID id.EmployeeID, selfStatus, managerStatus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[reviewKey{cycleID, quarter, employeeID}] = reviewState{self: selfStatus, manager: managerStatus}
}

// AddGoal appends a goal in the given status.
func (s *InMemory) AddGoal(cycleID id.CycleID, quarter id.Quarter, employeeID id.EmployeeID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, goal{cycle: cycleID, quarter: quarter, employee: employeeID, status: status})
}

func (s *InMemory) SubmittedEmployeeIDs(_ context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (models.EmployeeSet, error) {
	if err := checkScope(quarter, kind); err != nil {
		return nil, err
	}
	if kind == models.KindGoal {
		return s.goalOwners(cycleID, quarter, goalSubmitted), nil
	}
	return s.reviewed(cycleID, quarter, func(r reviewState) bool { return r.self == StatusSubmitted }), nil
}

func (s *InMemory) ReviewedEmployeeIDs(_ context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (models.EmployeeSet, error) {
	if err := checkScope(quarter, kind); err != nil {
		return nil, err
	}
	if kind == models.KindGoal {
		return s.goalOwners(cycleID, quarter, goalReviewed), nil
	}
	terminal := quarterlyReviewed
	if quarter == id.YearEnd {
		terminal = yearEndReviewed
	}
	return s.reviewed(cycleID, quarter, func(r reviewState) bool { return contains(terminal, r.manager) }), nil
}

func (s *InMemory) PendingGoalApprovals(_ context.Context, cycleID id.CycleID, employeeIDs []id.EmployeeID) (int, error) {
	owners := models.NewEmployeeSet(employeeIDs...)
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, g := range s.goals {
		if g.cycle == cycleID && g.status == StatusSubmitted && owners.Has(g.employee) {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) goalOwners(cycleID id.CycleID, quarter id.Quarter, statuses []string) models.EmployeeSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := models.NewEmployeeSet()
	for _, g := range s.goals {
		if g.cycle == cycleID && g.quarter == quarter && contains(statuses, g.status) {
			out.Add(g.employee)
		}
	}
	return out
}

func (s *InMemory) reviewed(cycleID id.CycleID, quarter id.Quarter, match func(reviewState) bool) models.EmployeeSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := models.NewEmployeeSet()
	for k, r := range s.reviews {
		if k.cycle == cycleID && k.quarter == quarter && match(r) {
			out.Add(k.employee)
		}
	}
	return out
}
