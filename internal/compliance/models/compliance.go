package models

import (
	"cloud.google.com/go/civil"

	id "reviewcycle/pkg/domain"
)

// Deadline is the submission window compliance is measured against.
// End is nil while the window has no configured close.
type Deadline struct {
	Start civil.Date  `json:"start"`
	End   *civil.Date `json:"end"`
}

// IsPast reports whether today is strictly after the window end.
func (d Deadline) IsPast(today civil.Date) bool {
	return d.End != nil && today.After(*d.End)
}

// IsOpen reports whether today lies within the window.
func (d Deadline) IsOpen(today civil.Date) bool {
	return !today.Before(d.Start) && !d.IsPast(today)
}

// Snapshot is one eligible employee's standing against one deadline.
type Snapshot struct {
	EmployeeID      id.EmployeeID `json:"employee_id"`
	CycleID         id.CycleID    `json:"cycle_id"`
	Quarter         id.Quarter    `json:"quarter"`
	Kind            Kind          `json:"kind"`
	HasSubmitted    bool          `json:"has_submitted"`
	HasPermission   bool          `json:"has_permission"`
	NeedsPermission bool          `json:"needs_permission"`
	IsPastDeadline  bool          `json:"is_past_deadline"`
	IsWindowOpen    bool          `json:"is_window_open"`
	Permission      *Permission   `json:"permission,omitempty"`
}

// Stats aggregates snapshots for one deadline.
type Stats struct {
	Total             int  `json:"total_employees"`
	Submitted         int  `json:"submitted"`
	MissedDeadline    int  `json:"missed_deadline"`
	LateAccessGranted int  `json:"late_access_granted"`
	IsPastDeadline    bool `json:"is_past_deadline"`
}

// LateSubmissionStats is the stats read model with the deadline it was computed for.
type LateSubmissionStats struct {
	Stats
	CycleID  id.CycleID `json:"cycle_id"`
	Quarter  id.Quarter `json:"quarter"`
	Kind     Kind       `json:"kind"`
	Deadline Deadline   `json:"deadline"`
	IsOpen   bool       `json:"is_window_open"`
}

// RosterEntry is one row of the HR late-submission roster.
type RosterEntry struct {
	Snapshot
	EmpCode    string         `json:"emp_code"`
	FullName   string         `json:"full_name"`
	Department string         `json:"department"`
	ManagerID  *id.EmployeeID `json:"manager_id,omitempty"`
}
