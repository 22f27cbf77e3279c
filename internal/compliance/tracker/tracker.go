// Package tracker computes late-submission compliance from already-loaded
// facts. Nothing here does I/O or reads the clock.
package tracker

import (
	"time"

	"cloud.google.com/go/civil"

	"reviewcycle/internal/compliance/models"
	id "reviewcycle/pkg/domain"
)

// IsEligible reports whether emp was on staff when the window opened.
// New hires who joined after windowStart are never counted as missing it.
func IsEligible(emp models.Employee, windowStart civil.Date) bool {
	return !emp.JoinDate.After(windowStart)
}

// MatchPermission returns the active grant covering (employee, cycle, quarter),
// preferring a quarter-specific grant over an AnyQuarter one. Nil when none.
func MatchPermission(employeeID id.EmployeeID, cycleID id.CycleID, quarter id.Quarter, perms []models.Permission, now time.Time) *models.Permission {
	var wildcard *models.Permission
	for i := range perms {
		p := &perms[i]
		if p.EmployeeID != employeeID || p.CycleID != cycleID {
			continue
		}
		if !p.IsActive(now) || !p.Covers(quarter) {
			continue
		}
		if p.Scope == quarter {
			return p
		}
		if wildcard == nil {
			wildcard = p
		}
	}
	return wildcard
}

// Snapshot builds one record per eligible employee.
func Snapshot(cycleID id.CycleID, quarter id.Quarter, kind models.Kind, deadline models.Deadline, employees []models.Employee, submitted models.EmployeeSet, perms []models.Permission, now time.Time) []models.Snapshot {
	today := civil.DateOf(now)
	past := deadline.IsPast(today)
	open := deadline.IsOpen(today)
	byEmployee := indexByEmployee(perms)

	out := make([]models.Snapshot, 0, len(employees))
	for _, emp := range employees {
		if !IsEligible(emp, deadline.Start) {
			continue
		}
		perm := MatchPermission(emp.ID, cycleID, quarter, byEmployee[emp.ID], now)
		hasSubmitted := submitted.Has(emp.ID)
		out = append(out, models.Snapshot{
			EmployeeID:      emp.ID,
			CycleID:         cycleID,
			Quarter:         quarter,
			Kind:            kind,
			HasSubmitted:    hasSubmitted,
			HasPermission:   perm != nil,
			NeedsPermission: !hasSubmitted && perm == nil,
			IsPastDeadline:  past,
			IsWindowOpen:    open,
			Permission:      perm,
		})
	}
	return out
}

// Aggregate totals snapshots. A deadline that has not passed cannot be missed,
// so MissedDeadline stays 0 until today is after windowEnd.
func Aggregate(snapshots []models.Snapshot, windowEnd *civil.Date, now time.Time) models.Stats {
	past := models.Deadline{End: windowEnd}.IsPast(civil.DateOf(now))
	stats := models.Stats{Total: len(snapshots), IsPastDeadline: past}
	for _, s := range snapshots {
		if s.HasSubmitted {
			stats.Submitted++
		}
		if s.HasPermission {
			stats.LateAccessGranted++
		}
	}
	if past {
		stats.MissedDeadline = stats.Total - stats.Submitted
	}
	return stats
}

func indexByEmployee(perms []models.Permission) map[id.EmployeeID][]models.Permission {
	out := make(map[id.EmployeeID][]models.Permission)
	for _, p := range perms {
		out[p.EmployeeID] = append(out[p.EmployeeID], p)
	}
	return out
}
