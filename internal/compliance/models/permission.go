package models

import (
	"time"

	id "reviewcycle/pkg/domain"
)

// Permission is a late-submission grant for one employee in one cycle.
//
// Scope is Q1..Q4 for a single quarter, AnyQuarter for every quarter, or
// YearEnd for the year-end self-evaluation. At most one row exists per
// (employee, cycle, scope); revocation is a soft delete.
type Permission struct {
	ID         id.PermissionID `json:"id"`
	EmployeeID id.EmployeeID   `json:"employee_id"`
	CycleID    id.CycleID      `json:"cycle_id"`
	Scope      id.Quarter      `json:"quarter"`
	Reason     string          `json:"reason"`
	GrantedBy  string          `json:"granted_by"`
	GrantedAt  time.Time       `json:"granted_at"`
	ExpiresAt  *time.Time      `json:"expires_at"`
	RevokedAt  *time.Time      `json:"revoked_at"`
}

func (p *Permission) IsRevoked() bool {
	return p.RevokedAt != nil
}

// IsExpired reports whether the grant lapsed at or before now.
func (p *Permission) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// IsActive is evaluated at query time; nothing transitions a grant to expired.
func (p *Permission) IsActive(now time.Time) bool {
	return !p.IsRevoked() && !p.IsExpired(now)
}

// Covers reports whether the grant's scope applies to a deadline in quarter.
// A numbered quarter is covered by its own scope or AnyQuarter; YearEnd only by YearEnd.
func (p *Permission) Covers(quarter id.Quarter) bool {
	switch {
	case quarter == id.YearEnd:
		return p.Scope == id.YearEnd
	case quarter.IsNumbered():
		return p.Scope == quarter || p.Scope == id.AnyQuarter
	}
	return false
}

// Reactivate reuses a revoked or expired row for a fresh grant.
func (p *Permission) Reactivate(reason, grantedBy string, expiresAt *time.Time, now time.Time) {
	p.Reason = reason
	p.GrantedBy = grantedBy
	p.ExpiresAt = expiresAt
	p.GrantedAt = now
	p.RevokedAt = nil
}

// Revoke marks the grant revoked. It reports false when it already was.
func (p *Permission) Revoke(now time.Time) bool {
	if p.IsRevoked() {
		return false
	}
	t := now
	p.RevokedAt = &t
	return true
}

// Amend replaces the reason and expiry. A nil reason keeps the stored one;
// clearExpiry removes the expiry, otherwise a non-nil expiresAt replaces it.
// It reports whether anything changed.
func (p *Permission) Amend(reason *string, expiresAt *time.Time, clearExpiry bool) bool {
	changed := false
	if reason != nil && *reason != p.Reason {
		p.Reason = *reason
		changed = true
	}
	switch {
	case clearExpiry && p.ExpiresAt != nil:
		p.ExpiresAt = nil
		changed = true
	case expiresAt != nil && (p.ExpiresAt == nil || !p.ExpiresAt.Equal(*expiresAt)):
		t := *expiresAt
		p.ExpiresAt = &t
		changed = true
	}
	return changed
}
