package models

import (
	"cloud.google.com/go/civil"

	id "reviewcycle/pkg/domain"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// Employee is the directory record the compliance engine reads.
type Employee struct {
	ID         id.EmployeeID  `json:"id"`
	EmpCode    string         `json:"emp_code"`
	FullName   string         `json:"full_name"`
	Department string         `json:"department"`
	ManagerID  *id.EmployeeID `json:"manager_id,omitempty"`
	JoinDate   civil.Date     `json:"join_date"`
	Status     EmployeeStatus `json:"status"`
}

// EmployeeSet is an unordered set of employee IDs.
type EmployeeSet map[id.EmployeeID]struct{}

func NewEmployeeSet(ids ...id.EmployeeID) EmployeeSet {
	s := make(EmployeeSet, len(ids))
	for _, e := range ids {
		s[e] = struct{}{}
	}
	return s
}

func (s EmployeeSet) Add(e id.EmployeeID) {
	s[e] = struct{}{}
}

// Has is safe on a nil set.
func (s EmployeeSet) Has(e id.EmployeeID) bool {
	_, ok := s[e]
	return ok
}

func (s EmployeeSet) Len() int {
	return len(s)
}

// IDs returns the members in no particular order.
func (s EmployeeSet) IDs() []id.EmployeeID {
	out := make([]id.EmployeeID, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	return out
}
