// Package validator resolves partial window updates into complete, valid
// window records. Every function is pure: callers supply the stored record, the
// update and the bounds, and get back either the record to persist or a
// validation error naming the offending field and its allowed range.
package validator

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"reviewcycle/internal/window/models"
	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
)

// DefaultQuarterBounds returns the calendar bounds of a numbered fiscal quarter:
// Q1 Jan 1–Mar 31, Q2 Apr 1–Jun 30, Q3 Jul 1–Sep 30, Q4 Oct 1–Dec 31.
func DefaultQuarterBounds(year int, quarter id.Quarter) (models.Bounds, error) {
	if !quarter.IsNumbered() {
		return models.Bounds{}, dErrors.New(dErrors.CodeInvalidInput, "quarter must be between 1 and 4")
	}
	firstMonth := time.Month(3*(quarter.Number()-1) + 1)
	start := civil.Date{Year: year, Month: firstMonth, Day: 1}
	// Day 0 of the month after the quarter is its last day.
	end := civil.DateOf(time.Date(year, firstMonth+3, 0, 0, 0, 0, 0, time.UTC))
	return models.Bounds{Start: start, End: end}, nil
}

// DefaultReviewWindow is the record a quarter gets before anyone configures it:
// calendar bounds, no self-review, and a one-day manager review on the last day.
func DefaultReviewWindow(cycleID id.CycleID, year int, quarter id.Quarter) (models.ReviewWindow, error) {
	b, err := DefaultQuarterBounds(year, quarter)
	if err != nil {
		return models.ReviewWindow{}, err
	}
	return models.ReviewWindow{
		CycleID:            cycleID,
		Quarter:            quarter,
		QuarterStart:       b.Start,
		QuarterEnd:         b.End,
		ManagerReviewStart: b.End,
		ManagerReviewEnd:   b.End,
	}, nil
}

// MergeReviewWindow resolves upd against existing (nil when nothing is stored).
//
// Quarter bounds and manager review fall back to stored values and then to the
// calendar defaults; self-review falls back to stored values only. A manager
// start after its end is pulled back to the end. When the call changes only the
// quarter bounds, a stored self-review pair that no longer fits is cleared and
// stored manager dates that no longer fit move to the new quarter end. Anything
// else outside the quarter is rejected.
func MergeReviewWindow(existing *models.ReviewWindow, upd models.ReviewWindowUpdate, year int, quarter id.Quarter) (models.ReviewWindow, error) {
	def, err := DefaultQuarterBounds(year, quarter)
	if err != nil {
		return models.ReviewWindow{}, err
	}

	var prev models.ReviewWindow
	if existing != nil {
		prev = *existing
	} else {
		prev = models.ReviewWindow{
			QuarterStart:       def.Start,
			QuarterEnd:         def.End,
			ManagerReviewStart: def.End,
			ManagerReviewEnd:   def.End,
		}
	}

	out := models.ReviewWindow{
		CycleID:      prev.CycleID,
		Quarter:      quarter,
		QuarterStart: valueOr(upd.QuarterStart, prev.QuarterStart),
		QuarterEnd:   valueOr(upd.QuarterEnd, prev.QuarterEnd),
		UpdatedAt:    prev.UpdatedAt,
	}
	if out.QuarterStart.After(out.QuarterEnd) {
		return models.ReviewWindow{}, dErrors.Validation("quarter_start",
			"quarter start must not be after quarter end", "", out.QuarterEnd.String())
	}
	bounds := out.Bounds()

	if !upd.ClearSelfReview {
		out.SelfReviewStart = ptrOr(upd.SelfReviewStart, prev.SelfReviewStart)
		out.SelfReviewEnd = ptrOr(upd.SelfReviewEnd, prev.SelfReviewEnd)
	}

	// Without a stored record the manager default tracks the (possibly updated) quarter end.
	managerFallbackStart, managerFallbackEnd := prev.ManagerReviewStart, prev.ManagerReviewEnd
	if existing == nil {
		managerFallbackStart, managerFallbackEnd = out.QuarterEnd, out.QuarterEnd
	}
	out.ManagerReviewStart = valueOr(upd.ManagerReviewStart, managerFallbackStart)
	out.ManagerReviewEnd = valueOr(upd.ManagerReviewEnd, managerFallbackEnd)
	clampManagerStart(&out)

	boundsChanged := existing != nil &&
		(out.QuarterStart != existing.QuarterStart || out.QuarterEnd != existing.QuarterEnd)
	if boundsChanged && !upd.TouchesSubWindows() {
		if outside(bounds, out.SelfReviewStart) || outside(bounds, out.SelfReviewEnd) {
			out.SelfReviewStart, out.SelfReviewEnd = nil, nil
		}
		if !bounds.Contains(out.ManagerReviewStart) {
			out.ManagerReviewStart = out.QuarterEnd
		}
		if !bounds.Contains(out.ManagerReviewEnd) {
			out.ManagerReviewEnd = out.QuarterEnd
		}
		clampManagerStart(&out)
	}

	if err := checkPair(bounds, "self_review", out.SelfReviewStart, out.SelfReviewEnd); err != nil {
		return models.ReviewWindow{}, err
	}
	if err := checkPair(bounds, "manager_review", &out.ManagerReviewStart, &out.ManagerReviewEnd); err != nil {
		return models.ReviewWindow{}, err
	}
	return out, nil
}

// MergeGoalWindow resolves upd against existing using bounds from the quarter's
// review window. A stored sub-window the update does not touch is cleared when it
// no longer fits the bounds.
func MergeGoalWindow(existing *models.GoalWindow, upd models.GoalWindowUpdate, bounds models.Bounds) (models.GoalWindow, error) {
	out := models.GoalWindow{Status: models.GoalWindowDraft}
	if existing != nil {
		out = *existing
	}

	if upd.ClearGoalSubmission {
		out.GoalSubmissionStart, out.GoalSubmissionEnd = nil, nil
	} else {
		out.GoalSubmissionStart = ptrOr(upd.GoalSubmissionStart, out.GoalSubmissionStart)
		out.GoalSubmissionEnd = ptrOr(upd.GoalSubmissionEnd, out.GoalSubmissionEnd)
	}
	if !upd.TouchesSubmission() &&
		(outside(bounds, out.GoalSubmissionStart) || outside(bounds, out.GoalSubmissionEnd)) {
		out.GoalSubmissionStart, out.GoalSubmissionEnd = nil, nil
	}

	if upd.ClearGoalApproval {
		out.GoalApprovalStart, out.GoalApprovalEnd = nil, nil
	} else {
		out.GoalApprovalStart = ptrOr(upd.GoalApprovalStart, out.GoalApprovalStart)
		out.GoalApprovalEnd = ptrOr(upd.GoalApprovalEnd, out.GoalApprovalEnd)
	}
	if !upd.TouchesApproval() &&
		(outside(bounds, out.GoalApprovalStart) || outside(bounds, out.GoalApprovalEnd)) {
		out.GoalApprovalStart, out.GoalApprovalEnd = nil, nil
	}

	if upd.AllowLateGoalSubmission != nil {
		out.AllowLateGoalSubmission = *upd.AllowLateGoalSubmission
	}
	if upd.Status != nil {
		if !upd.Status.IsValid() {
			return models.GoalWindow{}, dErrors.Validation("status", "status must be draft, open or closed", "", "")
		}
		out.Status = *upd.Status
	}

	if err := checkPair(bounds, "goal_submission", out.GoalSubmissionStart, out.GoalSubmissionEnd); err != nil {
		return models.GoalWindow{}, err
	}
	if err := checkPair(bounds, "goal_approval", out.GoalApprovalStart, out.GoalApprovalEnd); err != nil {
		return models.GoalWindow{}, err
	}
	return out, nil
}

func clampManagerStart(w *models.ReviewWindow) {
	if w.ManagerReviewStart.After(w.ManagerReviewEnd) {
		w.ManagerReviewStart = w.ManagerReviewEnd
	}
}

// checkPair validates each present date against bounds, then that both or
// neither date is set, then the pair's order.
func checkPair(bounds models.Bounds, prefix string, start, end *civil.Date) error {
	if outside(bounds, start) {
		return outOfRange(prefix+"_start", bounds)
	}
	if outside(bounds, end) {
		return outOfRange(prefix+"_end", bounds)
	}
	if start != nil && end == nil {
		return missingHalf(prefix+"_end", prefix+"_start", bounds)
	}
	if start == nil && end != nil {
		return missingHalf(prefix+"_start", prefix+"_end", bounds)
	}
	if start != nil && end != nil && start.After(*end) {
		return dErrors.Validation(prefix+"_start",
			fmt.Sprintf("%s_start must not be after %s_end", prefix, prefix),
			bounds.Start.String(), end.String())
	}
	return nil
}

func missingHalf(field, other string, bounds models.Bounds) error {
	return dErrors.Validation(field,
		fmt.Sprintf("%s is required when %s is set", field, other),
		bounds.Start.String(), bounds.End.String())
}

func outOfRange(field string, bounds models.Bounds) error {
	return dErrors.Validation(field,
		fmt.Sprintf("%s must be between %s and %s", field, bounds.Start, bounds.End),
		bounds.Start.String(), bounds.End.String())
}

func outside(bounds models.Bounds, d *civil.Date) bool {
	return d != nil && !bounds.Contains(*d)
}

func valueOr(v *civil.Date, fallback civil.Date) civil.Date {
	if v != nil {
		return *v
	}
	return fallback
}

func ptrOr(v, fallback *civil.Date) *civil.Date {
	if v != nil {
		d := *v
		return &d
	}
	if fallback != nil {
		d := *fallback
		return &d
	}
	return nil
}
