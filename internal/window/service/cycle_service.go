package service

import (
	"context"
	"errors"
	"log/slog"

	"reviewcycle/internal/window/metrics"
	"reviewcycle/internal/window/models"
	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/audit"
	"reviewcycle/pkg/platform/sentinel"
	"reviewcycle/pkg/platform/tx"
	"reviewcycle/pkg/requestcontext"
)

// CycleService creates cycles and moves them through their lifecycle.
type CycleService struct {
	cycles  CycleStore
	tx      tx.Runner
	auditor audit.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type CycleOption func(*CycleService)

func WithCycleLogger(logger *slog.Logger) CycleOption {
	return func(s *CycleService) { s.logger = logger }
}

func WithCycleMetrics(m *metrics.Metrics) CycleOption {
	return func(s *CycleService) { s.metrics = m }
}

func WithCycleTxRunner(r tx.Runner) CycleOption {
	return func(s *CycleService) { s.tx = r }
}

func WithCycleAuditStore(a audit.Store) CycleOption {
	return func(s *CycleService) { s.auditor = a }
}

func NewCycleService(cycles CycleStore, opts ...CycleOption) (*CycleService, error) {
	if cycles == nil {
		return nil, errors.New("cycle store is required")
	}
	s := &CycleService{cycles: cycles, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewShardedRunner()
	}
	return s, nil
}

// lifecycleKey serializes activations so two cycles cannot both become active.
const lifecycleKey = "cycle-lifecycle"

func (s *CycleService) CreateCycle(ctx context.Context, req *models.CreateCycleRequest) (*models.Cycle, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := models.NewCycle(id.NewCycleID(), req.Name, req.FiscalYear, *req.StartDate, *req.EndDate, req.Schedule(), requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	err = s.tx.RunInTx(ctx, lifecycleKey, func(ctx context.Context) error {
		if err := s.cycles.Create(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "cycle already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create cycle")
		}
		return s.emit(ctx, audit.EventCycleCreated, c, "")
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CycleService) GetCycle(ctx context.Context, cycleID id.CycleID) (*models.Cycle, error) {
	c, err := s.cycles.FindByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "cycle not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cycle")
	}
	return c, nil
}

// GetActiveCycle returns the active cycle or a NotFound error when none is active.
func (s *CycleService) GetActiveCycle(ctx context.Context) (*models.Cycle, error) {
	c, err := s.cycles.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no active cycle")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load active cycle")
	}
	return c, nil
}

// TransitionCycle moves a cycle to next. Activating a cycle while another is
// active is a conflict.
func (s *CycleService) TransitionCycle(ctx context.Context, cycleID id.CycleID, req *models.TransitionCycleRequest) (*models.Cycle, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out *models.Cycle
	err := s.tx.RunInTx(ctx, lifecycleKey, func(ctx context.Context) error {
		c, err := s.GetCycle(ctx, cycleID)
		if err != nil {
			return err
		}
		if err := c.CanTransition(req.Status); err != nil {
			return err
		}
		if req.Status == models.CycleStatusActive {
			active, err := s.cycles.FindActive(ctx)
			switch {
			case err == nil && active.ID != c.ID:
				return dErrors.New(dErrors.CodeConflict, "another cycle is already active")
			case err != nil && !errors.Is(err, sentinel.ErrNotFound):
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load active cycle")
			}
		}
		c.ApplyTransition(req.Status, requestcontext.Now(ctx))
		if err := s.cycles.Update(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "another cycle is already active")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update cycle")
		}
		out = c
		return s.emit(ctx, audit.EventCycleStatusChanged, c, string(req.Status))
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(string(req.Status))
	return out, nil
}

// UpdateSchedule edits the cycle's name and dates, including the year-end
// self-review pair. Every pair must stay ordered; status is not touched.
func (s *CycleService) UpdateSchedule(ctx context.Context, cycleID id.CycleID, req *models.UpdateCycleRequest) (*models.Cycle, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out *models.Cycle
	err := s.tx.RunInTx(ctx, lifecycleKey, func(ctx context.Context) error {
		c, err := s.GetCycle(ctx, cycleID)
		if err != nil {
			return err
		}
		next, err := c.WithUpdate(req.ToUpdate(), requestcontext.Now(ctx))
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeValidation, err.Error())
			}
			return err
		}
		if next.SameSchedule(c) {
			out = c
			return nil
		}
		if err := s.cycles.Update(ctx, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update cycle")
		}
		out = next
		return s.emit(ctx, audit.EventCycleScheduleUpdated, next, "")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CycleService) emit(ctx context.Context, action audit.AuditEvent, c *models.Cycle, decision string) error {
	event := audit.Event{
		Action:    string(action),
		CycleID:   c.ID.String(),
		Subject:   c.Name,
		Decision:  decision,
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.Actor(ctx),
	}.Normalize(requestcontext.Now(ctx))

	s.logger.InfoContext(ctx, event.Action,
		"event", event.Action,
		"log_type", "audit",
		"cycle_id", event.CycleID,
		"decision", decision,
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
