package models

import (
	id "reviewcycle/pkg/domain"
)

// ReviewFacts holds who submitted a self-review and whose manager review is
// terminal for one period.
type ReviewFacts struct {
	Submitted EmployeeSet
	Reviewed  EmployeeSet
}

// Pending reports whether e submitted and still awaits the manager.
func (f ReviewFacts) Pending(e id.EmployeeID) bool {
	return f.Submitted.Has(e) && !f.Reviewed.Has(e)
}

type QuarterlyPending struct {
	PendingCount     int
	OpenPendingCount int
	Employees        EmployeeSet
}

type YearEndPending struct {
	Count     int
	Employees EmployeeSet
}

// Dashboard is a manager's outstanding work across direct reports.
type Dashboard struct {
	CycleID              id.CycleID `json:"cycle_id"`
	DirectReportsCount   int        `json:"direct_reports_count"`
	GoalsPendingApproval int        `json:"goals_pending_approval"`
	EvaluationsPending   int        `json:"evaluations_pending"`
	QuarterlyPending     int        `json:"quarterly_pending"`
	QuarterlyOpenPending int        `json:"quarterly_open_pending"`
	YearEndPending       int        `json:"year_end_pending"`
}
