package models

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"

	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
)

type CycleStatus string

const (
	CycleStatusDraft    CycleStatus = "draft"
	CycleStatusActive   CycleStatus = "active"
	CycleStatusClosed   CycleStatus = "closed"
	CycleStatusArchived CycleStatus = "archived"
)

var cycleTransitions = map[CycleStatus][]CycleStatus{
	CycleStatusDraft:  {CycleStatusActive, CycleStatusArchived},
	CycleStatusActive: {CycleStatusClosed},
	CycleStatusClosed: {CycleStatusArchived},
}

func (s CycleStatus) IsValid() bool {
	switch s {
	case CycleStatusDraft, CycleStatusActive, CycleStatusClosed, CycleStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether s may move to next.
func (s CycleStatus) CanTransitionTo(next CycleStatus) bool {
	for _, allowed := range cycleTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cycle is one annual performance-review cycle.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - FiscalYear is within 2000..2100
//   - StartDate <= EndDate; calibration and year-end pairs are ordered when set
//   - Status transitions: draft→active, draft→archived, active→closed, closed→archived
//
// Window edits are not gated on status.
type Cycle struct {
	ID                        id.CycleID  `json:"id"`
	Name                      string      `json:"name"`
	FiscalYear                int         `json:"fiscal_year"`
	Status                    CycleStatus `json:"status"`
	StartDate                 civil.Date  `json:"start_date"`
	EndDate                   civil.Date  `json:"end_date"`
	CalibrationStart          *civil.Date `json:"calibration_start"`
	CalibrationEnd            *civil.Date `json:"calibration_end"`
	ReleaseDate               *civil.Date `json:"release_date"`
	YearEndSelfReviewStart    *civil.Date `json:"year_end_self_review_start"`
	YearEndSelfReviewEnd      *civil.Date `json:"year_end_self_review_end"`
	YearEndManagerReviewStart *civil.Date `json:"year_end_manager_review_start"`
	YearEndManagerReviewEnd   *civil.Date `json:"year_end_manager_review_end"`
	CreatedAt                 time.Time   `json:"created_at"`
	UpdatedAt                 time.Time   `json:"updated_at"`
}

// CycleSchedule groups the optional dates supplied at creation.
type CycleSchedule struct {
	CalibrationStart          *civil.Date
	CalibrationEnd            *civil.Date
	ReleaseDate               *civil.Date
	YearEndSelfReviewStart    *civil.Date
	YearEndSelfReviewEnd      *civil.Date
	YearEndManagerReviewStart *civil.Date
	YearEndManagerReviewEnd   *civil.Date
}

func NewCycle(cycleID id.CycleID, name string, fiscalYear int, start, end civil.Date, sched CycleSchedule, now time.Time) (*Cycle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "cycle name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "cycle name must be 128 characters or less")
	}
	if fiscalYear < 2000 || fiscalYear > 2100 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "fiscal year must be between 2000 and 2100")
	}
	if !start.IsValid() || !end.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "cycle start and end dates are required")
	}
	if start.After(end) {
		return nil, dErrors.Validation("start_date", "cycle start must not be after cycle end", "", end.String())
	}
	if err := orderedPair("calibration", sched.CalibrationStart, sched.CalibrationEnd); err != nil {
		return nil, err
	}
	if err := orderedPair("year_end_self_review", sched.YearEndSelfReviewStart, sched.YearEndSelfReviewEnd); err != nil {
		return nil, err
	}
	if err := orderedPair("year_end_manager_review", sched.YearEndManagerReviewStart, sched.YearEndManagerReviewEnd); err != nil {
		return nil, err
	}
	return &Cycle{
		ID:                        cycleID,
		Name:                      name,
		FiscalYear:                fiscalYear,
		Status:                    CycleStatusDraft,
		StartDate:                 start,
		EndDate:                   end,
		CalibrationStart:          sched.CalibrationStart,
		CalibrationEnd:            sched.CalibrationEnd,
		ReleaseDate:               sched.ReleaseDate,
		YearEndSelfReviewStart:    sched.YearEndSelfReviewStart,
		YearEndSelfReviewEnd:      sched.YearEndSelfReviewEnd,
		YearEndManagerReviewStart: sched.YearEndManagerReviewStart,
		YearEndManagerReviewEnd:   sched.YearEndManagerReviewEnd,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}, nil
}

// CycleUpdate carries the cycle fields to change. Nil fields keep their stored
// values.
type CycleUpdate struct {
	Name      *string
	StartDate *civil.Date
	EndDate   *civil.Date
	Schedule  CycleSchedule
}

// WithUpdate returns a copy of c with upd applied. The result is checked
// against the same invariants as NewCycle; status and creation time carry over.
func (c *Cycle) WithUpdate(upd CycleUpdate, now time.Time) (*Cycle, error) {
	name := c.Name
	if upd.Name != nil {
		name = *upd.Name
	}
	sched := CycleSchedule{
		CalibrationStart:          pick(upd.Schedule.CalibrationStart, c.CalibrationStart),
		CalibrationEnd:            pick(upd.Schedule.CalibrationEnd, c.CalibrationEnd),
		ReleaseDate:               pick(upd.Schedule.ReleaseDate, c.ReleaseDate),
		YearEndSelfReviewStart:    pick(upd.Schedule.YearEndSelfReviewStart, c.YearEndSelfReviewStart),
		YearEndSelfReviewEnd:      pick(upd.Schedule.YearEndSelfReviewEnd, c.YearEndSelfReviewEnd),
		YearEndManagerReviewStart: pick(upd.Schedule.YearEndManagerReviewStart, c.YearEndManagerReviewStart),
		YearEndManagerReviewEnd:   pick(upd.Schedule.YearEndManagerReviewEnd, c.YearEndManagerReviewEnd),
	}
	start, end := c.StartDate, c.EndDate
	if upd.StartDate != nil {
		start = *upd.StartDate
	}
	if upd.EndDate != nil {
		end = *upd.EndDate
	}
	next, err := NewCycle(c.ID, name, c.FiscalYear, start, end, sched, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	next.Status = c.Status
	next.UpdatedAt = now
	return next, nil
}

// SameSchedule reports whether o carries the same name and dates as c.
func (c *Cycle) SameSchedule(o *Cycle) bool {
	return c.Name == o.Name &&
		c.StartDate == o.StartDate &&
		c.EndDate == o.EndDate &&
		DatePtrEqual(c.CalibrationStart, o.CalibrationStart) &&
		DatePtrEqual(c.CalibrationEnd, o.CalibrationEnd) &&
		DatePtrEqual(c.ReleaseDate, o.ReleaseDate) &&
		DatePtrEqual(c.YearEndSelfReviewStart, o.YearEndSelfReviewStart) &&
		DatePtrEqual(c.YearEndSelfReviewEnd, o.YearEndSelfReviewEnd) &&
		DatePtrEqual(c.YearEndManagerReviewStart, o.YearEndManagerReviewStart) &&
		DatePtrEqual(c.YearEndManagerReviewEnd, o.YearEndManagerReviewEnd)
}

func pick(v, fallback *civil.Date) *civil.Date {
	if v != nil {
		return v
	}
	return fallback
}

func orderedPair(field string, start, end *civil.Date) error {
	if start != nil && end != nil && start.After(*end) {
		return dErrors.Validation(field+"_start", field+" start must not be after its end", "", end.String())
	}
	return nil
}

func (c *Cycle) IsActive() bool {
	return c.Status == CycleStatusActive
}

// CanTransition checks the status change without applying it.
func (c *Cycle) CanTransition(next CycleStatus) error {
	if !next.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown cycle status")
	}
	if !c.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeConflict, "cycle cannot move from "+string(c.Status)+" to "+string(next))
	}
	return nil
}

// ApplyTransition sets the status. Must only be called after CanTransition returns nil.
func (c *Cycle) ApplyTransition(next CycleStatus, now time.Time) {
	c.Status = next
	c.UpdatedAt = now
}

// YearEndSelfReview returns the year-end self-evaluation window. Either side may be nil.
func (c *Cycle) YearEndSelfReview() (start, end *civil.Date) {
	return c.YearEndSelfReviewStart, c.YearEndSelfReviewEnd
}
