// Package dashboard computes a manager's outstanding review work across their
// direct reports.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"reviewcycle/internal/compliance/metrics"
	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/compliance/ports"
	windowmodels "reviewcycle/internal/window/models"
	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/sentinel"
	"reviewcycle/pkg/requestcontext"
)

var tracer = otel.Tracer("reviewcycle/compliance/dashboard")

// PendingQuarterlyReviews counts, per quarter, direct reports whose self-review
// is submitted and whose manager review is not terminal. A pending review is
// also open when today falls inside that quarter's manager-review interval.
func PendingQuarterlyReviews(reports []models.Employee, facts map[id.Quarter]models.ReviewFacts, windows map[id.Quarter]windowmodels.ReviewWindow, today civil.Date) models.QuarterlyPending {
	out := models.QuarterlyPending{Employees: models.NewEmployeeSet()}
	for _, q := range id.Quarters {
		f := facts[q]
		w, hasWindow := windows[q]
		open := hasWindow && w.ManagerReview().Contains(today)
		for _, e := range reports {
			if !f.Pending(e.ID) {
				continue
			}
			out.PendingCount++
			out.Employees.Add(e.ID)
			if open {
				out.OpenPendingCount++
			}
		}
	}
	return out
}

// PendingYearEndReviews counts direct reports whose year-end self-evaluation is
// submitted and whose manager evaluation is neither submitted nor released.
func PendingYearEndReviews(reports []models.Employee, facts models.ReviewFacts) models.YearEndPending {
	out := models.YearEndPending{Employees: models.NewEmployeeSet()}
	for _, e := range reports {
		if facts.Pending(e.ID) {
			out.Count++
			out.Employees.Add(e.ID)
		}
	}
	return out
}

type Service struct {
	directory   ports.EmployeeDirectory
	submissions ports.SubmissionQuery
	goals       ports.GoalQuery
	windows     ports.WindowReader
	cycles      ports.CycleReader
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(directory ports.EmployeeDirectory, submissions ports.SubmissionQuery, goals ports.GoalQuery, windows ports.WindowReader, cycles ports.CycleReader, opts ...Option) (*Service, error) {
	switch {
	case directory == nil:
		return nil, errors.New("employee directory is required")
	case submissions == nil:
		return nil, errors.New("submission query is required")
	case goals == nil:
		return nil, errors.New("goal query is required")
	case windows == nil:
		return nil, errors.New("window reader is required")
	case cycles == nil:
		return nil, errors.New("cycle reader is required")
	}
	s := &Service{
		directory:   directory,
		submissions: submissions,
		goals:       goals,
		windows:     windows,
		cycles:      cycles,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PendingGoalApprovals counts submitted goals of reports awaiting approval.
func (s *Service) PendingGoalApprovals(ctx context.Context, reports []models.Employee, cycleID id.CycleID) (int, error) {
	ids := make([]id.EmployeeID, len(reports))
	for i, e := range reports {
		ids[i] = e.ID
	}
	n, err := s.goals.PendingGoalApprovals(ctx, cycleID, ids)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count pending goal approvals")
	}
	return n, nil
}

// GetManagerDashboard summarizes managerID's pending work in cycleID.
// EvaluationsPending counts distinct employees with any pending evaluation.
func (s *Service) GetManagerDashboard(ctx context.Context, managerID id.EmployeeID, cycleID id.CycleID) (_ *models.Dashboard, err error) {
	ctx, span := tracer.Start(ctx, "dashboard.GetManagerDashboard", trace.WithAttributes(
		attribute.String("manager_id", managerID.String()),
		attribute.String("cycle_id", cycleID.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		}
		span.End()
	}()
	defer s.metrics.ObserveDashboard(time.Now())

	if _, err := s.cycles.GetCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	if _, err := s.directory.FindEmployee(ctx, managerID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "manager not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load manager")
	}
	reports, err := s.directory.DirectReportsOf(ctx, managerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load direct reports")
	}
	out := &models.Dashboard{CycleID: cycleID, DirectReportsCount: len(reports)}
	span.SetAttributes(attribute.Int("direct_reports", len(reports)))
	if len(reports) == 0 {
		return out, nil
	}

	var (
		goalsPending int
		quarterly    [len(id.Quarters)]models.ReviewFacts
		windows      [len(id.Quarters)]windowmodels.ReviewWindow
		yearEnd      models.ReviewFacts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goalsPending, err = s.PendingGoalApprovals(gctx, reports, cycleID)
		return err
	})
	for i, q := range id.Quarters {
		g.Go(func() error {
			var err error
			quarterly[i], err = s.reviewFacts(gctx, cycleID, q)
			return err
		})
		g.Go(func() error {
			qw, err := s.windows.GetQuarterWindow(gctx, cycleID, q)
			if err != nil {
				return err
			}
			windows[i] = qw.Review
			return nil
		})
	}
	g.Go(func() error {
		var err error
		yearEnd, err = s.reviewFacts(gctx, cycleID, id.YearEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	facts := make(map[id.Quarter]models.ReviewFacts, len(id.Quarters))
	windowByQuarter := make(map[id.Quarter]windowmodels.ReviewWindow, len(id.Quarters))
	for i, q := range id.Quarters {
		facts[q] = quarterly[i]
		windowByQuarter[q] = windows[i]
	}
	qp := PendingQuarterlyReviews(reports, facts, windowByQuarter, requestcontext.Today(ctx))
	yp := PendingYearEndReviews(reports, yearEnd)

	pending := models.NewEmployeeSet(qp.Employees.IDs()...)
	for _, e := range yp.Employees.IDs() {
		pending.Add(e)
	}

	out.GoalsPendingApproval = goalsPending
	out.QuarterlyPending = qp.PendingCount
	out.QuarterlyOpenPending = qp.OpenPendingCount
	out.YearEndPending = yp.Count
	out.EvaluationsPending = pending.Len()
	return out, nil
}

// GetActiveDashboard is GetManagerDashboard for the active cycle. It returns
// nil without error when no cycle is active.
func (s *Service) GetActiveDashboard(ctx context.Context, managerID id.EmployeeID) (*models.Dashboard, error) {
	cycle, err := s.cycles.GetActiveCycle(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.GetManagerDashboard(ctx, managerID, cycle.ID)
}

func (s *Service) reviewFacts(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (models.ReviewFacts, error) {
	submitted, err := s.submissions.SubmittedEmployeeIDs(ctx, cycleID, quarter, models.KindSelfReview)
	if err != nil {
		return models.ReviewFacts{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load self-review submissions")
	}
	reviewed, err := s.submissions.ReviewedEmployeeIDs(ctx, cycleID, quarter, models.KindSelfReview)
	if err != nil {
		return models.ReviewFacts{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load manager reviews")
	}
	return models.ReviewFacts{Submitted: submitted, Reviewed: reviewed}, nil
}
