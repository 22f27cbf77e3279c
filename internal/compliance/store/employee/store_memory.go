package employee

import (
	"context"
	"sort"
	"sync"

	"cloud.google.com/go/civil"

	"reviewcycle/internal/compliance/models"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/sentinel"
)

// InMemory is the employee directory used in development and tests.
// Results are ordered by employee code.
type InMemory struct {
	mu        sync.RWMutex
	employees map[id.EmployeeID]models.Employee
}

func NewInMemory(employees ...models.Employee) *InMemory {
	s := &InMemory{employees: make(map[id.EmployeeID]models.Employee)}
	for _, e := range employees {
		s.employees[e.ID] = copyEmployee(e)
	}
	return s
}

// Save inserts or replaces an employee.
func (s *InMemory) Save(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = copyEmployee(*e)
	return nil
}

func (s *InMemory) FindEmployee(_ context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := copyEmployee(e)
	return &out, nil
}

func (s *InMemory) ActiveEmployeesJoinedOnOrBefore(_ context.Context, date civil.Date) ([]models.Employee, error) {
	return s.filter(func(e models.Employee) bool {
		return e.Status == models.EmployeeActive && !e.JoinDate.After(date)
	}), nil
}

func (s *InMemory) DirectReportsOf(_ context.Context, managerID id.EmployeeID) ([]models.Employee, error) {
	return s.filter(func(e models.Employee) bool {
		return e.Status == models.EmployeeActive && e.ManagerID != nil && *e.ManagerID == managerID
	}), nil
}

func (s *InMemory) filter(match func(models.Employee) bool) []models.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Employee, 0)
	for _, e := range s.employees {
		if match(e) {
			out = append(out, copyEmployee(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmpCode < out[j].EmpCode })
	return out
}

func copyEmployee(e models.Employee) models.Employee {
	if e.ManagerID != nil {
		m := *e.ManagerID
		e.ManagerID = &m
	}
	return e
}
