package permission

import (
	"context"
	"sort"
	"sync"
	"time"

	"reviewcycle/internal/compliance/models"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/sentinel"
)

type key struct {
	employee id.EmployeeID
	cycle    id.CycleID
	scope    id.Quarter
}

// InMemory keeps permissions by ID with a secondary (employee, cycle, scope)
// index enforcing the same uniqueness as the table constraint.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[id.PermissionID]models.Permission
	byKey map[key]id.PermissionID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:  make(map[id.PermissionID]models.Permission),
		byKey: make(map[key]id.PermissionID),
	}
}

func keyOf(p *models.Permission) key {
	return key{employee: p.EmployeeID, cycle: p.CycleID, scope: p.Scope}
}

func (s *InMemory) FindByID(_ context.Context, permissionID id.PermissionID) (*models.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[permissionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := copyPermission(p)
	return &out, nil
}

func (s *InMemory) FindByKey(_ context.Context, employeeID id.EmployeeID, cycleID id.CycleID, scope id.Quarter) (*models.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, ok := s.byKey[key{employee: employeeID, cycle: cycleID, scope: scope}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := copyPermission(s.byID[pid])
	return &out, nil
}

func (s *InMemory) ListByCycle(_ context.Context, cycleID id.CycleID) ([]models.Permission, error) {
	return s.list(func(p models.Permission) bool { return p.CycleID == cycleID }), nil
}

func (s *InMemory) ListForEmployee(_ context.Context, cycleID id.CycleID, employeeID id.EmployeeID) ([]models.Permission, error) {
	return s.list(func(p models.Permission) bool {
		return p.CycleID == cycleID && p.EmployeeID == employeeID
	}), nil
}

func (s *InMemory) list(match func(models.Permission) bool) []models.Permission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Permission, 0)
	for _, p := range s.byID {
		if match(p) {
			out = append(out, copyPermission(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GrantedAt.Equal(out[j].GrantedAt) {
			return out[i].GrantedAt.Before(out[j].GrantedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *InMemory) Create(_ context.Context, p *models.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; ok {
		return sentinel.ErrConflict
	}
	k := keyOf(p)
	if _, ok := s.byKey[k]; ok {
		return sentinel.ErrConflict
	}
	s.byID[p.ID] = copyPermission(*p)
	s.byKey[k] = p.ID
	return nil
}

// Update replaces the mutable fields. The key fields of a stored row never change.
func (s *InMemory) Update(_ context.Context, p *models.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	stored.Reason = p.Reason
	stored.GrantedBy = p.GrantedBy
	stored.GrantedAt = p.GrantedAt
	stored.ExpiresAt = copyTime(p.ExpiresAt)
	stored.RevokedAt = copyTime(p.RevokedAt)
	s.byID[p.ID] = stored
	return nil
}

func copyPermission(p models.Permission) models.Permission {
	p.ExpiresAt = copyTime(p.ExpiresAt)
	p.RevokedAt = copyTime(p.RevokedAt)
	return p
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
