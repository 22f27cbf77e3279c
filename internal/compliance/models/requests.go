package models

import (
	"strings"
	"time"

	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/validation"
)

// GrantRequest is the body of POST /permissions/late-submission.
type GrantRequest struct {
	EmployeeID string     `json:"employee_id" validate:"required,max=64"`
	CycleID    string     `json:"cycle_id" validate:"required,max=64"`
	Quarter    string     `json:"quarter,omitempty" validate:"max=16"`
	Reason     string     `json:"reason,omitempty" validate:"max=500"`
	GrantedBy  string     `json:"granted_by,omitempty" validate:"max=128"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`

	parsedEmployeeID id.EmployeeID
	parsedCycleID    id.CycleID
	parsedScope      id.Quarter
}

func (r *GrantRequest) Normalize() {
	if r == nil {
		return
	}
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.CycleID = strings.TrimSpace(r.CycleID)
	r.Quarter = strings.TrimSpace(r.Quarter)
	r.Reason = strings.TrimSpace(r.Reason)
	r.GrantedBy = strings.TrimSpace(r.GrantedBy)
}

// Validate checks shape and parses IDs and scope. An empty quarter grants
// every quarter. Expiry is checked against the clock by the service.
func (r *GrantRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	employeeID, err := id.ParseEmployeeID(r.EmployeeID)
	if err != nil {
		return err
	}
	cycleID, err := id.ParseCycleID(r.CycleID)
	if err != nil {
		return err
	}
	scope := id.AnyQuarter
	if r.Quarter != "" {
		if scope, err = id.ParseQuarter(r.Quarter); err != nil {
			return err
		}
	}
	r.parsedEmployeeID, r.parsedCycleID, r.parsedScope = employeeID, cycleID, scope
	return nil
}

func (r *GrantRequest) ParsedEmployeeID() id.EmployeeID { return r.parsedEmployeeID }
func (r *GrantRequest) ParsedCycleID() id.CycleID       { return r.parsedCycleID }
func (r *GrantRequest) ParsedScope() id.Quarter         { return r.parsedScope }

// RevokeForRequest is the body of PUT /cycles/{cycleID}/employees/{employeeID}/late-submission/revoke.
// An empty quarter revokes every active grant.
type RevokeForRequest struct {
	Quarter string `json:"quarter,omitempty" validate:"max=16"`

	parsedScope id.Quarter
}

func (r *RevokeForRequest) Normalize() {
	if r == nil {
		return
	}
	r.Quarter = strings.TrimSpace(r.Quarter)
}

func (r *RevokeForRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Quarter == "" {
		r.parsedScope = id.QuarterUnset
		return nil
	}
	scope, err := id.ParseQuarter(r.Quarter)
	if err != nil {
		return err
	}
	r.parsedScope = scope
	return nil
}

func (r *RevokeForRequest) ParsedScope() id.Quarter { return r.parsedScope }

// UpdatePermissionRequest is the body of PUT /permissions/late-submission/{permissionID}.
// Omitted fields keep their stored values.
type UpdatePermissionRequest struct {
	Reason      *string    `json:"reason,omitempty" validate:"omitempty,max=500"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ClearExpiry bool       `json:"clear_expiry,omitempty"`
}

func (r *UpdatePermissionRequest) Normalize() {
	if r == nil || r.Reason == nil {
		return
	}
	reason := strings.TrimSpace(*r.Reason)
	r.Reason = &reason
}

func (r *UpdatePermissionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Reason == nil && r.ExpiresAt == nil && !r.ClearExpiry {
		return dErrors.New(dErrors.CodeBadRequest, "reason, expires_at or clear_expiry is required")
	}
	if r.ExpiresAt != nil && r.ClearExpiry {
		return dErrors.Validation("expires_at", "expires_at cannot be combined with clear_expiry", "", "")
	}
	return nil
}
