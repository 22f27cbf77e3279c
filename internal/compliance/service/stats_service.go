package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/compliance/ports"
	"reviewcycle/internal/compliance/tracker"
	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/requestcontext"
)

// StatsService answers "who met this deadline" for one cycle, quarter and kind.
type StatsService struct {
	windows     ports.WindowReader
	cycles      ports.CycleReader
	directory   ports.EmployeeDirectory
	submissions ports.SubmissionQuery
	permissions ports.PermissionStore
	opts        options
}

func NewStatsService(
	windows ports.WindowReader,
	cycles ports.CycleReader,
	directory ports.EmployeeDirectory,
	submissions ports.SubmissionQuery,
	permissions ports.PermissionStore,
	opts ...Option,
) (*StatsService, error) {
	switch {
	case windows == nil:
		return nil, errors.New("window reader is required")
	case cycles == nil:
		return nil, errors.New("cycle reader is required")
	case directory == nil:
		return nil, errors.New("employee directory is required")
	case submissions == nil:
		return nil, errors.New("submission query is required")
	case permissions == nil:
		return nil, errors.New("permission store is required")
	}
	return &StatsService{
		windows:     windows,
		cycles:      cycles,
		directory:   directory,
		submissions: submissions,
		permissions: permissions,
		opts:        buildOptions(opts),
	}, nil
}

// GetLateSubmissionStats aggregates compliance against the deadline for
// (cycle, quarter, kind). quarter is Q1..Q4 or YearEnd. A window that has not
// opened yet is a validation error carrying its start date.
func (s *StatsService) GetLateSubmissionStats(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (_ *models.LateSubmissionStats, err error) {
	ctx, span := tracer.Start(ctx, "compliance.GetLateSubmissionStats", trace.WithAttributes(
		attribute.String("cycle_id", cycleID.String()),
		attribute.String("quarter", quarter.String()),
		attribute.String("kind", string(kind)),
	))
	defer func() { endSpan(span, err) }()
	defer s.opts.metrics.ObserveQuery("stats", string(kind), time.Now())

	deadline, err := s.resolveDeadline(ctx, cycleID, quarter, kind)
	if err != nil {
		return nil, err
	}
	if today := requestcontext.Today(ctx); today.Before(deadline.Start) {
		return nil, dErrors.Validation("quarter",
			fmt.Sprintf("%s window has not started yet; it opens on %s. Only periods that have started are accessible",
				periodLabel(quarter, kind), deadline.Start),
			deadline.Start.String(), "")
	}
	snaps, _, err := s.snapshots(ctx, cycleID, quarter, kind, deadline)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	stats := tracker.Aggregate(snaps, deadline.End, now)
	span.SetAttributes(
		attribute.Int("total", stats.Total),
		attribute.Int("missed_deadline", stats.MissedDeadline),
	)
	return &models.LateSubmissionStats{
		Stats:    stats,
		CycleID:  cycleID,
		Quarter:  quarter,
		Kind:     kind,
		Deadline: deadline,
		IsOpen:   deadline.IsOpen(requestcontext.Today(ctx)),
	}, nil
}

// ListCompliance returns the HR roster: eligible employees who have not
// submitted or who hold a matching grant.
func (s *StatsService) ListCompliance(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (_ []models.RosterEntry, err error) {
	ctx, span := tracer.Start(ctx, "compliance.ListCompliance", trace.WithAttributes(
		attribute.String("cycle_id", cycleID.String()),
		attribute.String("quarter", quarter.String()),
		attribute.String("kind", string(kind)),
	))
	defer func() { endSpan(span, err) }()
	defer s.opts.metrics.ObserveQuery("roster", string(kind), time.Now())

	deadline, err := s.resolveDeadline(ctx, cycleID, quarter, kind)
	if err != nil {
		return nil, err
	}
	snaps, employees, err := s.snapshots(ctx, cycleID, quarter, kind, deadline)
	if err != nil {
		return nil, err
	}
	byID := make(map[id.EmployeeID]models.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	out := make([]models.RosterEntry, 0)
	for _, snap := range snaps {
		if snap.HasSubmitted && !snap.HasPermission {
			continue
		}
		emp := byID[snap.EmployeeID]
		out = append(out, models.RosterEntry{
			Snapshot:   snap,
			EmpCode:    emp.EmpCode,
			FullName:   emp.FullName,
			Department: emp.Department,
			ManagerID:  emp.ManagerID,
		})
	}
	return out, nil
}

// resolveDeadline picks the window compliance is measured against:
// numbered self-review uses the review window's self-review pair, numbered goal
// the goal-submission pair, and year-end self-review the cycle's year-end pair.
func (s *StatsService) resolveDeadline(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (models.Deadline, error) {
	if !kind.IsValid() {
		return models.Deadline{}, dErrors.Validation("kind", `kind must be "goal" or "self-review"`, "", "")
	}
	switch {
	case quarter == id.YearEnd:
		if kind == models.KindGoal {
			return models.Deadline{}, dErrors.Validation("kind", "goal deadlines exist only for quarters 1 to 4", "", "")
		}
		cycle, err := s.cycles.GetCycle(ctx, cycleID)
		if err != nil {
			return models.Deadline{}, err
		}
		start, end := cycle.YearEndSelfReview()
		return deadlineOf(start, end, "year-end self-review window is not configured")

	case quarter.IsNumbered():
		qw, err := s.windows.GetQuarterWindow(ctx, cycleID, quarter)
		if err != nil {
			return models.Deadline{}, err
		}
		if kind == models.KindSelfReview {
			return deadlineOf(qw.Review.SelfReviewStart, qw.Review.SelfReviewEnd,
				"Q"+quarter.String()+" self-review window is not configured")
		}
		if qw.Goal == nil {
			return models.Deadline{}, dErrors.Validation("quarter", "Q"+quarter.String()+" goal window is not configured", "", "")
		}
		return deadlineOf(qw.Goal.GoalSubmissionStart, qw.Goal.GoalSubmissionEnd,
			"Q"+quarter.String()+" goal submission window is not configured")
	}
	return models.Deadline{}, dErrors.Validation("quarter", `quarter must be between 1 and 4 or "year-end"`, "", "")
}

func periodLabel(quarter id.Quarter, kind models.Kind) string {
	if quarter == id.YearEnd {
		return "year-end " + string(kind)
	}
	return "Q" + quarter.String() + " " + string(kind)
}

func deadlineOf(start, end *civil.Date, msg string) (models.Deadline, error) {
	if start == nil {
		return models.Deadline{}, dErrors.Validation("quarter", msg, "", "")
	}
	return models.Deadline{Start: *start, End: end}, nil
}

// snapshots loads the eligible population, submissions and grants concurrently.
func (s *StatsService) snapshots(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind, deadline models.Deadline) ([]models.Snapshot, []models.Employee, error) {
	var (
		employees []models.Employee
		submitted models.EmployeeSet
		perms     []models.Permission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.directory.ActiveEmployeesJoinedOnOrBefore(gctx, deadline.Start)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load employees")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		submitted, err = s.submissions.SubmittedEmployeeIDs(gctx, cycleID, quarter, kind)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submissions")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		perms, err = s.permissions.ListByCycle(gctx, cycleID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load permissions")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	now := requestcontext.Now(ctx)
	return tracker.Snapshot(cycleID, quarter, kind, deadline, employees, submitted, perms, now), employees, nil
}
