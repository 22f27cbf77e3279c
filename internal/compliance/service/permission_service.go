package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/compliance/ports"
	"reviewcycle/internal/compliance/tracker"
	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/audit"
	"reviewcycle/pkg/platform/sentinel"
	"reviewcycle/pkg/requestcontext"
)

// PermissionService grants and revokes late-submission exceptions. Writes for
// one (cycle, employee) pair are serialized through the tx runner.
type PermissionService struct {
	permissions ports.PermissionStore
	cycles      ports.CycleReader
	directory   ports.EmployeeDirectory
	opts        options
}

func NewPermissionService(permissions ports.PermissionStore, cycles ports.CycleReader, directory ports.EmployeeDirectory, opts ...Option) (*PermissionService, error) {
	switch {
	case permissions == nil:
		return nil, errors.New("permission store is required")
	case cycles == nil:
		return nil, errors.New("cycle reader is required")
	case directory == nil:
		return nil, errors.New("employee directory is required")
	}
	return &PermissionService{
		permissions: permissions,
		cycles:      cycles,
		directory:   directory,
		opts:        buildOptions(opts),
	}, nil
}

const (
	grantCreated     = "created"
	grantReactivated = "reactivated"
	grantConflict    = "conflict"
	grantRejected    = "rejected"
	grantFailed      = "failed"
)

// Grant creates a permission, or reactivates the revoked or expired row already
// stored for (employee, cycle, scope). It reports whether a row was reactivated.
func (s *PermissionService) Grant(ctx context.Context, req *models.GrantRequest) (_ *models.Permission, reactivated bool, err error) {
	ctx, span := tracer.Start(ctx, "compliance.Grant")
	defer func() { endSpan(span, err) }()
	defer func() { s.opts.metrics.RecordGrant(grantResult(reactivated, err)) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, err
	}
	employeeID, cycleID, scope := req.ParsedEmployeeID(), req.ParsedCycleID(), req.ParsedScope()
	span.SetAttributes(
		attribute.String("cycle_id", cycleID.String()),
		attribute.String("employee_id", employeeID.String()),
		attribute.String("scope", scope.Scope()),
	)

	now := requestcontext.Now(ctx)
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, false, dErrors.Validation("expires_at", "expiry must be in the future", "", "")
	}
	if _, err := s.cycles.GetCycle(ctx, cycleID); err != nil {
		return nil, false, err
	}
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, false, err
	}
	grantedBy := req.GrantedBy
	if grantedBy == "" {
		grantedBy = requestcontext.Actor(ctx)
	}

	var out *models.Permission
	err = s.opts.tx.RunInTx(ctx, permissionKey(cycleID, employeeID), func(ctx context.Context) error {
		existing, err := s.permissions.FindByKey(ctx, employeeID, cycleID, scope)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			out = &models.Permission{
				ID:         id.NewPermissionID(),
				EmployeeID: employeeID,
				CycleID:    cycleID,
				Scope:      scope,
				Reason:     req.Reason,
				GrantedBy:  grantedBy,
				GrantedAt:  now,
				ExpiresAt:  req.ExpiresAt,
			}
			if err := s.permissions.Create(ctx, out); err != nil {
				if errors.Is(err, sentinel.ErrConflict) {
					return dErrors.New(dErrors.CodeConflict, "late submission permission already exists")
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create permission")
			}
		case err != nil:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load permission")
		case existing.IsActive(now):
			return dErrors.New(dErrors.CodeConflict, "an active late submission permission already exists")
		default:
			existing.Reactivate(req.Reason, grantedBy, req.ExpiresAt, now)
			if err := s.permissions.Update(ctx, existing); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reactivate permission")
			}
			out, reactivated = existing, true
		}

		action := audit.EventLateSubmissionGranted
		if reactivated {
			action = audit.EventLateSubmissionReactivated
		}
		return emitAudit(ctx, s.opts, audit.Event{
			Action:     string(action),
			CycleID:    cycleID.String(),
			EmployeeID: employeeID.String(),
			Subject:    out.ID.String(),
			Decision:   scope.Scope(),
			Reason:     req.Reason,
		})
	})
	if err != nil {
		return nil, false, err
	}
	return out, reactivated, nil
}

func grantResult(reactivated bool, err error) string {
	switch {
	case err == nil && reactivated:
		return grantReactivated
	case err == nil:
		return grantCreated
	case dErrors.HasCode(err, dErrors.CodeConflict):
		return grantConflict
	case dErrors.HasCode(err, dErrors.CodeInternal):
		return grantFailed
	default:
		return grantRejected
	}
}

// Revoke soft-deletes a permission. Revoking a revoked permission returns it
// unchanged.
func (s *PermissionService) Revoke(ctx context.Context, permissionID id.PermissionID) (_ *models.Permission, err error) {
	ctx, span := tracer.Start(ctx, "compliance.Revoke", trace.WithAttributes(
		attribute.String("permission_id", permissionID.String()),
	))
	defer func() { endSpan(span, err) }()

	p, err := s.Get(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	var out *models.Permission
	err = s.opts.tx.RunInTx(ctx, permissionKey(p.CycleID, p.EmployeeID), func(ctx context.Context) error {
		current, err := s.Get(ctx, permissionID)
		if err != nil {
			return err
		}
		out = current
		if !current.Revoke(requestcontext.Now(ctx)) {
			return nil
		}
		if err := s.permissions.Update(ctx, current); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke permission")
		}
		s.opts.metrics.RecordRevocations(1)
		return s.emitRevoked(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update amends the reason and expiry of an unrevoked permission. A revoked
// permission is a conflict; granting again reactivates it. An update that
// changes nothing writes nothing.
func (s *PermissionService) Update(ctx context.Context, permissionID id.PermissionID, req *models.UpdatePermissionRequest) (_ *models.Permission, err error) {
	ctx, span := tracer.Start(ctx, "compliance.Update", trace.WithAttributes(
		attribute.String("permission_id", permissionID.String()),
	))
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(requestcontext.Now(ctx)) {
		return nil, dErrors.Validation("expires_at", "expiry must be in the future", "", "")
	}

	p, err := s.Get(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	var out *models.Permission
	err = s.opts.tx.RunInTx(ctx, permissionKey(p.CycleID, p.EmployeeID), func(ctx context.Context) error {
		current, err := s.Get(ctx, permissionID)
		if err != nil {
			return err
		}
		if current.IsRevoked() {
			return dErrors.New(dErrors.CodeConflict, "permission is revoked; grant it again to reactivate")
		}
		out = current
		if !current.Amend(req.Reason, req.ExpiresAt, req.ClearExpiry) {
			return nil
		}
		if err := s.permissions.Update(ctx, current); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update permission")
		}
		return emitAudit(ctx, s.opts, audit.Event{
			Action:     string(audit.EventLateSubmissionUpdated),
			CycleID:    current.CycleID.String(),
			EmployeeID: current.EmployeeID.String(),
			Subject:    current.ID.String(),
			Decision:   current.Scope.Scope(),
			Reason:     current.Reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RevokeFor revokes the employee's unrevoked grants in cycleID matching scope.
// A numbered quarter also revokes the every-quarter grant; QuarterUnset
// revokes everything. It returns the revoked permissions, or NotFound when
// nothing matched.
func (s *PermissionService) RevokeFor(ctx context.Context, cycleID id.CycleID, employeeID id.EmployeeID, scope id.Quarter) (_ []models.Permission, err error) {
	ctx, span := tracer.Start(ctx, "compliance.RevokeFor", trace.WithAttributes(
		attribute.String("cycle_id", cycleID.String()),
		attribute.String("employee_id", employeeID.String()),
		attribute.String("scope", scope.Scope()),
	))
	defer func() { endSpan(span, err) }()

	if scope == id.AnyQuarter {
		return nil, dErrors.Validation("quarter", `quarter must be between 1 and 4, "year-end", or empty`, "", "")
	}

	var revoked []models.Permission
	err = s.opts.tx.RunInTx(ctx, permissionKey(cycleID, employeeID), func(ctx context.Context) error {
		perms, err := s.permissions.ListForEmployee(ctx, cycleID, employeeID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list permissions")
		}
		// All targets are selected before any write.
		now := requestcontext.Now(ctx)
		targets := make([]models.Permission, 0, len(perms))
		for _, p := range perms {
			if p.IsRevoked() || !revokeMatches(p.Scope, scope) {
				continue
			}
			p.Revoke(now)
			targets = append(targets, p)
		}
		if len(targets) == 0 {
			return dErrors.New(dErrors.CodeNotFound, "no active late submission permission found")
		}
		for i := range targets {
			if err := s.permissions.Update(ctx, &targets[i]); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke permission")
			}
		}
		for i := range targets {
			if err := s.emitRevoked(ctx, &targets[i]); err != nil {
				return err
			}
		}
		revoked = targets
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.opts.metrics.RecordRevocations(len(revoked))
	return revoked, nil
}

func revokeMatches(stored, requested id.Quarter) bool {
	switch {
	case requested == id.QuarterUnset:
		return true
	case requested == id.YearEnd:
		return stored == id.YearEnd
	default:
		return stored == requested || stored == id.AnyQuarter
	}
}

func (s *PermissionService) emitRevoked(ctx context.Context, p *models.Permission) error {
	return emitAudit(ctx, s.opts, audit.Event{
		Action:     string(audit.EventLateSubmissionRevoked),
		CycleID:    p.CycleID.String(),
		EmployeeID: p.EmployeeID.String(),
		Subject:    p.ID.String(),
		Decision:   p.Scope.Scope(),
	})
}

// Check returns the permission that applies to the employee's deadline in
// quarter, or nil. A specific-quarter grant wins over an every-quarter grant.
func (s *PermissionService) Check(ctx context.Context, employeeID id.EmployeeID, cycleID id.CycleID, quarter id.Quarter) (*models.Permission, error) {
	if quarter != id.YearEnd && !quarter.IsNumbered() {
		return nil, dErrors.Validation("quarter", `quarter must be between 1 and 4 or "year-end"`, "", "")
	}
	perms, err := s.permissions.ListForEmployee(ctx, cycleID, employeeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list permissions")
	}
	return tracker.MatchPermission(employeeID, cycleID, quarter, perms, requestcontext.Now(ctx)), nil
}

func (s *PermissionService) Get(ctx context.Context, permissionID id.PermissionID) (*models.Permission, error) {
	p, err := s.permissions.FindByID(ctx, permissionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "permission not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load permission")
	}
	return p, nil
}

// List returns the cycle's permissions, only those active now when activeOnly is set.
func (s *PermissionService) List(ctx context.Context, cycleID id.CycleID, activeOnly bool) ([]models.Permission, error) {
	perms, err := s.permissions.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list permissions")
	}
	if !activeOnly {
		return perms, nil
	}
	now := requestcontext.Now(ctx)
	out := make([]models.Permission, 0, len(perms))
	for _, p := range perms {
		if p.IsActive(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListForEmployee returns every grant the employee holds in the cycle.
func (s *PermissionService) ListForEmployee(ctx context.Context, cycleID id.CycleID, employeeID id.EmployeeID) ([]models.Permission, error) {
	perms, err := s.permissions.ListForEmployee(ctx, cycleID, employeeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list permissions")
	}
	return perms, nil
}

func (s *PermissionService) requireEmployee(ctx context.Context, employeeID id.EmployeeID) error {
	if _, err := s.directory.FindEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load employee")
	}
	return nil
}

func permissionKey(cycleID id.CycleID, employeeID id.EmployeeID) string {
	return "permission:" + cycleID.String() + ":" + employeeID.String()
}
