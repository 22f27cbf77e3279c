package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reviewcycle/internal/window/metrics"
	"reviewcycle/internal/window/models"
	"reviewcycle/internal/window/validator"
	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/audit"
	"reviewcycle/pkg/platform/sentinel"
	"reviewcycle/pkg/platform/tx"
	"reviewcycle/pkg/requestcontext"
)

// WindowStore persists review and goal windows keyed by (cycle, quarter).
// Find methods return sentinel.ErrNotFound when nothing is stored.
type WindowStore interface {
	FindReviewWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.ReviewWindow, error)
	SaveReviewWindow(ctx context.Context, w *models.ReviewWindow) error
	FindGoalWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.GoalWindow, error)
	SaveGoalWindow(ctx context.Context, w *models.GoalWindow) error
}

// CycleStore persists cycles. FindActive returns sentinel.ErrNotFound when no
// cycle is active; Create returns sentinel.ErrConflict when a second active
// cycle would exist.
type CycleStore interface {
	Create(ctx context.Context, c *models.Cycle) error
	FindByID(ctx context.Context, cycleID id.CycleID) (*models.Cycle, error)
	FindActive(ctx context.Context) (*models.Cycle, error)
	Update(ctx context.Context, c *models.Cycle) error
}

// WindowService owns the read-merge-write cycle for quarter windows. Each upsert
// runs as one transaction keyed by (cycle, quarter).
type WindowService struct {
	cycles  CycleStore
	windows WindowStore
	tx      tx.Runner
	auditor audit.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*WindowService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *WindowService) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *WindowService) {
		s.metrics = m
	}
}

// WithTxRunner replaces the default in-process runner. Use the Postgres runner
// whenever the stores are Postgres-backed.
func WithTxRunner(r tx.Runner) Option {
	return func(s *WindowService) {
		s.tx = r
	}
}

// WithAuditStore records a quarter_window_updated event in the same transaction
// as every write.
func WithAuditStore(a audit.Store) Option {
	return func(s *WindowService) {
		s.auditor = a
	}
}

func New(cycles CycleStore, windows WindowStore, opts ...Option) (*WindowService, error) {
	if cycles == nil {
		return nil, errors.New("cycle store is required")
	}
	if windows == nil {
		return nil, errors.New("window store is required")
	}
	s := &WindowService{
		cycles:  cycles,
		windows: windows,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewShardedRunner()
	}
	return s, nil
}

const (
	kindReview  = "review"
	kindGoal    = "goal"
	kindQuarter = "quarter"
)

// UpsertReviewWindow merges upd into the stored review window and persists the
// result when it differs. When the quarter bounds move, a stored goal window is
// re-fitted to the new bounds in the same transaction.
func (s *WindowService) UpsertReviewWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, upd models.ReviewWindowUpdate) (*models.ReviewWindow, error) {
	if err := requireNumbered(quarter); err != nil {
		return nil, err
	}
	var out models.ReviewWindow
	err := s.runUpsert(ctx, kindReview, cycleID, quarter, func(ctx context.Context, cycle *models.Cycle) (bool, error) {
		plan, err := s.planReview(ctx, cycle, quarter, upd)
		if err != nil {
			return false, err
		}
		var goal *goalPlan
		if plan.boundsMoved() {
			if goal, err = s.refitGoal(ctx, cycle, quarter, plan.window.Bounds()); err != nil {
				return false, err
			}
		}
		if err := s.saveReview(ctx, plan); err != nil {
			return false, err
		}
		out = plan.window
		if goal == nil {
			return plan.changed, nil
		}
		if err := s.saveGoal(ctx, *goal); err != nil {
			return false, err
		}
		return plan.changed || goal.changed, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertGoalWindow merges upd into the stored goal window, validating against
// the quarter's review-window bounds. A default review window is persisted
// first when the quarter has none.
func (s *WindowService) UpsertGoalWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, upd models.GoalWindowUpdate) (*models.GoalWindow, error) {
	if err := requireNumbered(quarter); err != nil {
		return nil, err
	}
	var out models.GoalWindow
	err := s.runUpsert(ctx, kindGoal, cycleID, quarter, func(ctx context.Context, cycle *models.Cycle) (bool, error) {
		review, err := s.storedOrDefaultReview(ctx, cycle, quarter)
		if err != nil {
			return false, err
		}
		goal, err := s.planGoal(ctx, cycle, quarter, upd, review.window.Bounds())
		if err != nil {
			return false, err
		}
		if err := s.saveReview(ctx, review); err != nil {
			return false, err
		}
		if err := s.saveGoal(ctx, goal); err != nil {
			return false, err
		}
		out = goal.window
		return review.changed || goal.changed, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertQuarterWindow applies the review part and then the goal part as one
// unit. Both parts are validated before anything is written. A nil goal part
// only re-fits a stored goal window to the resulting bounds.
func (s *WindowService) UpsertQuarterWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, upd models.QuarterWindowUpdate) (*models.QuarterWindow, error) {
	if err := requireNumbered(quarter); err != nil {
		return nil, err
	}
	out := &models.QuarterWindow{Persisted: true}
	err := s.runUpsert(ctx, kindQuarter, cycleID, quarter, func(ctx context.Context, cycle *models.Cycle) (bool, error) {
		var reviewUpd models.ReviewWindowUpdate
		if upd.Review != nil {
			reviewUpd = *upd.Review
		}
		review, err := s.planReview(ctx, cycle, quarter, reviewUpd)
		if err != nil {
			return false, err
		}

		var goal *goalPlan
		if upd.Goal != nil {
			p, err := s.planGoal(ctx, cycle, quarter, *upd.Goal, review.window.Bounds())
			if err != nil {
				return false, err
			}
			goal = &p
		} else if goal, err = s.refitGoal(ctx, cycle, quarter, review.window.Bounds()); err != nil {
			return false, err
		}

		if err := s.saveReview(ctx, review); err != nil {
			return false, err
		}
		out.Review = review.window
		if goal == nil {
			return review.changed, nil
		}
		if err := s.saveGoal(ctx, *goal); err != nil {
			return false, err
		}
		out.Goal = &goal.window
		return review.changed || goal.changed, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetQuarterBounds returns the stored quarter bounds, or nil when the quarter
// has no review window yet.
func (s *WindowService) GetQuarterBounds(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.Bounds, error) {
	if err := requireNumbered(quarter); err != nil {
		return nil, err
	}
	w, err := s.findReview(ctx, cycleID, quarter)
	if err != nil || w == nil {
		return nil, err
	}
	b := w.Bounds()
	return &b, nil
}

// GetQuarterWindow returns the quarter's review window, falling back to derived
// defaults (Persisted=false), and its goal window if one is stored.
func (s *WindowService) GetQuarterWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.QuarterWindow, error) {
	if err := requireNumbered(quarter); err != nil {
		return nil, err
	}
	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	return s.quarterWindow(ctx, cycle, quarter)
}

// GetCycleWindows returns all four quarter windows of a cycle in order.
func (s *WindowService) GetCycleWindows(ctx context.Context, cycleID id.CycleID) ([]models.QuarterWindow, error) {
	cycle, err := s.loadCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	out := make([]models.QuarterWindow, 0, len(id.Quarters))
	for _, q := range id.Quarters {
		qw, err := s.quarterWindow(ctx, cycle, q)
		if err != nil {
			return nil, err
		}
		out = append(out, *qw)
	}
	return out, nil
}

func (s *WindowService) quarterWindow(ctx context.Context, cycle *models.Cycle, quarter id.Quarter) (*models.QuarterWindow, error) {
	review, err := s.findReview(ctx, cycle.ID, quarter)
	if err != nil {
		return nil, err
	}
	out := &models.QuarterWindow{Persisted: review != nil}
	if review != nil {
		out.Review = *review
	} else {
		def, err := validator.DefaultReviewWindow(cycle.ID, cycle.FiscalYear, quarter)
		if err != nil {
			return nil, err
		}
		out.Review = def
	}
	out.Goal, err = s.findGoal(ctx, cycle.ID, quarter)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// runUpsert wraps fn in the (cycle, quarter) transaction, loads the cycle, and
// emits the audit event when fn reports a write.
func (s *WindowService) runUpsert(ctx context.Context, kind string, cycleID id.CycleID, quarter id.Quarter, fn func(ctx context.Context, cycle *models.Cycle) (bool, error)) error {
	start := time.Now()
	defer s.metrics.ObserveUpsert(start)

	var changed bool
	err := s.tx.RunInTx(ctx, windowKey(cycleID, quarter), func(ctx context.Context) error {
		cycle, err := s.loadCycle(ctx, cycleID)
		if err != nil {
			return err
		}
		changed, err = fn(ctx, cycle)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return s.emit(ctx, audit.Event{
			Action:   string(audit.EventQuarterWindowUpdated),
			CycleID:  cycleID.String(),
			Subject:  quarter.Scope(),
			Decision: kind,
		})
	})
	switch {
	case err == nil && changed:
		s.metrics.RecordUpsert(kind, "written")
	case err == nil:
		s.metrics.RecordUpsert(kind, "unchanged")
	case dErrors.HasCode(err, dErrors.CodeValidation) || dErrors.HasCode(err, dErrors.CodeNotFound):
		s.metrics.RecordUpsert(kind, "rejected")
	default:
		s.metrics.RecordUpsert(kind, "failed")
		s.logger.ErrorContext(ctx, "window upsert failed",
			"kind", kind,
			"cycle_id", cycleID.String(),
			"quarter", quarter.String(),
			"error", err,
		)
	}
	return err
}

type reviewPlan struct {
	window   models.ReviewWindow
	previous *models.ReviewWindow
	changed  bool
}

func (p reviewPlan) boundsMoved() bool {
	return p.previous != nil && p.previous.Bounds() != p.window.Bounds()
}

type goalPlan struct {
	window  models.GoalWindow
	changed bool
}

// planReview merges upd into the stored window without writing. An unchanged
// plan carries the stored record with its original UpdatedAt.
func (s *WindowService) planReview(ctx context.Context, cycle *models.Cycle, quarter id.Quarter, upd models.ReviewWindowUpdate) (reviewPlan, error) {
	existing, err := s.findReview(ctx, cycle.ID, quarter)
	if err != nil {
		return reviewPlan{}, err
	}
	merged, err := validator.MergeReviewWindow(existing, upd, cycle.FiscalYear, quarter)
	if err != nil {
		return reviewPlan{}, err
	}
	merged.CycleID = cycle.ID
	merged.Quarter = quarter
	if existing != nil && merged.SameSchedule(*existing) {
		return reviewPlan{window: *existing, previous: existing}, nil
	}
	merged.UpdatedAt = requestcontext.Now(ctx)
	return reviewPlan{window: merged, previous: existing, changed: true}, nil
}

// storedOrDefaultReview returns the stored review window, or a default one
// that still needs to be written.
func (s *WindowService) storedOrDefaultReview(ctx context.Context, cycle *models.Cycle, quarter id.Quarter) (reviewPlan, error) {
	existing, err := s.findReview(ctx, cycle.ID, quarter)
	if err != nil {
		return reviewPlan{}, err
	}
	if existing != nil {
		return reviewPlan{window: *existing}, nil
	}
	def, err := validator.DefaultReviewWindow(cycle.ID, cycle.FiscalYear, quarter)
	if err != nil {
		return reviewPlan{}, err
	}
	def.UpdatedAt = requestcontext.Now(ctx)
	return reviewPlan{window: def, changed: true}, nil
}

func (s *WindowService) planGoal(ctx context.Context, cycle *models.Cycle, quarter id.Quarter, upd models.GoalWindowUpdate, bounds models.Bounds) (goalPlan, error) {
	existing, err := s.findGoal(ctx, cycle.ID, quarter)
	if err != nil {
		return goalPlan{}, err
	}
	merged, err := validator.MergeGoalWindow(existing, upd, bounds)
	if err != nil {
		return goalPlan{}, err
	}
	merged.CycleID = cycle.ID
	merged.Quarter = quarter
	if existing != nil && merged.SameSchedule(*existing) {
		return goalPlan{window: *existing}, nil
	}
	merged.UpdatedAt = requestcontext.Now(ctx)
	return goalPlan{window: merged, changed: true}, nil
}

// refitGoal re-checks a stored goal window against bounds, clearing any pair
// that no longer fits. It returns nil when the quarter has no goal window.
func (s *WindowService) refitGoal(ctx context.Context, cycle *models.Cycle, quarter id.Quarter, bounds models.Bounds) (*goalPlan, error) {
	existing, err := s.findGoal(ctx, cycle.ID, quarter)
	if err != nil || existing == nil {
		return nil, err
	}
	p, err := s.planGoal(ctx, cycle, quarter, models.GoalWindowUpdate{}, bounds)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *WindowService) saveReview(ctx context.Context, p reviewPlan) error {
	if !p.changed {
		return nil
	}
	if err := s.windows.SaveReviewWindow(ctx, &p.window); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save review window")
	}
	return nil
}

func (s *WindowService) saveGoal(ctx context.Context, p goalPlan) error {
	if !p.changed {
		return nil
	}
	if err := s.windows.SaveGoalWindow(ctx, &p.window); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save goal window")
	}
	return nil
}

func (s *WindowService) loadCycle(ctx context.Context, cycleID id.CycleID) (*models.Cycle, error) {
	cycle, err := s.cycles.FindByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "cycle not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cycle")
	}
	return cycle, nil
}

func (s *WindowService) findReview(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.ReviewWindow, error) {
	w, err := s.windows.FindReviewWindow(ctx, cycleID, quarter)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load review window")
	}
	return w, nil
}

func (s *WindowService) findGoal(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.GoalWindow, error) {
	w, err := s.windows.FindGoalWindow(ctx, cycleID, quarter)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load goal window")
	}
	return w, nil
}

func (s *WindowService) emit(ctx context.Context, event audit.Event) error {
	event.RequestID = requestcontext.RequestID(ctx)
	event.ActorID = requestcontext.Actor(ctx)
	event = event.Normalize(requestcontext.Now(ctx))

	s.logger.InfoContext(ctx, event.Action,
		"event", event.Action,
		"log_type", "audit",
		"cycle_id", event.CycleID,
		"subject", event.Subject,
		"decision", event.Decision,
		"request_id", event.RequestID,
	)
	if s.auditor == nil {
		return nil
	}
	if err := s.auditor.Append(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func windowKey(cycleID id.CycleID, quarter id.Quarter) string {
	return "window:" + cycleID.String() + ":" + quarter.Scope()
}

func requireNumbered(quarter id.Quarter) error {
	if !quarter.IsNumbered() {
		return dErrors.New(dErrors.CodeBadRequest, "quarter must be between 1 and 4")
	}
	return nil
}
