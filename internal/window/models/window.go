package models

import (
	"time"

	"cloud.google.com/go/civil"

	id "reviewcycle/pkg/domain"
)

// Bounds is an inclusive calendar-date interval.
type Bounds struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// Contains reports whether d lies within [Start, End].
func (b Bounds) Contains(d civil.Date) bool {
	return !d.Before(b.Start) && !d.After(b.End)
}

// ReviewWindow schedules self and manager review inside one fiscal quarter.
//
// Invariants:
//   - QuarterStart <= QuarterEnd
//   - ManagerReviewStart <= ManagerReviewEnd, both inside the quarter
//   - SelfReviewStart/End are both nil (unscheduled) or an ordered pair inside the quarter
type ReviewWindow struct {
	CycleID            id.CycleID  `json:"cycle_id"`
	Quarter            id.Quarter  `json:"quarter"`
	QuarterStart       civil.Date  `json:"quarter_start"`
	QuarterEnd         civil.Date  `json:"quarter_end"`
	SelfReviewStart    *civil.Date `json:"self_review_start"`
	SelfReviewEnd      *civil.Date `json:"self_review_end"`
	ManagerReviewStart civil.Date  `json:"manager_review_start"`
	ManagerReviewEnd   civil.Date  `json:"manager_review_end"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (w ReviewWindow) Bounds() Bounds {
	return Bounds{Start: w.QuarterStart, End: w.QuarterEnd}
}

// ManagerReview returns the manager-review interval.
func (w ReviewWindow) ManagerReview() Bounds {
	return Bounds{Start: w.ManagerReviewStart, End: w.ManagerReviewEnd}
}

// SameSchedule compares every scheduled date, ignoring UpdatedAt.
func (w ReviewWindow) SameSchedule(o ReviewWindow) bool {
	return w.CycleID == o.CycleID &&
		w.Quarter == o.Quarter &&
		w.QuarterStart == o.QuarterStart &&
		w.QuarterEnd == o.QuarterEnd &&
		DatePtrEqual(w.SelfReviewStart, o.SelfReviewStart) &&
		DatePtrEqual(w.SelfReviewEnd, o.SelfReviewEnd) &&
		w.ManagerReviewStart == o.ManagerReviewStart &&
		w.ManagerReviewEnd == o.ManagerReviewEnd
}

type GoalWindowStatus string

const (
	GoalWindowDraft  GoalWindowStatus = "draft"
	GoalWindowOpen   GoalWindowStatus = "open"
	GoalWindowClosed GoalWindowStatus = "closed"
)

func (s GoalWindowStatus) IsValid() bool {
	switch s {
	case GoalWindowDraft, GoalWindowOpen, GoalWindowClosed:
		return true
	}
	return false
}

// GoalWindow schedules goal submission and goal approval inside one fiscal quarter.
// Both sub-windows are optional; when set they are ordered and lie inside the
// quarter bounds of the matching ReviewWindow.
type GoalWindow struct {
	CycleID                 id.CycleID       `json:"cycle_id"`
	Quarter                 id.Quarter       `json:"quarter"`
	GoalSubmissionStart     *civil.Date      `json:"goal_submission_start"`
	GoalSubmissionEnd       *civil.Date      `json:"goal_submission_end"`
	GoalApprovalStart       *civil.Date      `json:"goal_approval_start"`
	GoalApprovalEnd         *civil.Date      `json:"goal_approval_end"`
	AllowLateGoalSubmission bool             `json:"allow_late_goal_submission"`
	Status                  GoalWindowStatus `json:"status"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// SameSchedule compares every configured field, ignoring UpdatedAt.
func (w GoalWindow) SameSchedule(o GoalWindow) bool {
	return w.CycleID == o.CycleID &&
		w.Quarter == o.Quarter &&
		DatePtrEqual(w.GoalSubmissionStart, o.GoalSubmissionStart) &&
		DatePtrEqual(w.GoalSubmissionEnd, o.GoalSubmissionEnd) &&
		DatePtrEqual(w.GoalApprovalStart, o.GoalApprovalStart) &&
		DatePtrEqual(w.GoalApprovalEnd, o.GoalApprovalEnd) &&
		w.AllowLateGoalSubmission == o.AllowLateGoalSubmission &&
		w.Status == o.Status
}

// QuarterWindow is the read model for one quarter: the review window (stored or
// derived defaults) and the goal window when one exists.
type QuarterWindow struct {
	Review    ReviewWindow `json:"review"`
	Persisted bool         `json:"persisted"`
	Goal      *GoalWindow  `json:"goal"`
}

// ReviewWindowUpdate is a partial update. Nil fields keep the stored value.
// ClearSelfReview unschedules self-review and wins over the self-review dates.
type ReviewWindowUpdate struct {
	QuarterStart       *civil.Date
	QuarterEnd         *civil.Date
	SelfReviewStart    *civil.Date
	SelfReviewEnd      *civil.Date
	ClearSelfReview    bool
	ManagerReviewStart *civil.Date
	ManagerReviewEnd   *civil.Date
}

// TouchesSubWindows reports whether the update names any self or manager review field.
func (u ReviewWindowUpdate) TouchesSubWindows() bool {
	return u.SelfReviewStart != nil || u.SelfReviewEnd != nil || u.ClearSelfReview ||
		u.ManagerReviewStart != nil || u.ManagerReviewEnd != nil
}

// GoalWindowUpdate is a partial update. Nil fields keep the stored value.
type GoalWindowUpdate struct {
	GoalSubmissionStart     *civil.Date
	GoalSubmissionEnd       *civil.Date
	ClearGoalSubmission     bool
	GoalApprovalStart       *civil.Date
	GoalApprovalEnd         *civil.Date
	ClearGoalApproval       bool
	AllowLateGoalSubmission *bool
	Status                  *GoalWindowStatus
}

// TouchesSubmission reports whether the update names a goal-submission field.
func (u GoalWindowUpdate) TouchesSubmission() bool {
	return u.GoalSubmissionStart != nil || u.GoalSubmissionEnd != nil || u.ClearGoalSubmission
}

// TouchesApproval reports whether the update names a goal-approval field.
func (u GoalWindowUpdate) TouchesApproval() bool {
	return u.GoalApprovalStart != nil || u.GoalApprovalEnd != nil || u.ClearGoalApproval
}

// QuarterWindowUpdate applies the review part then the goal part atomically.
// A nil Review is an empty update; a nil Goal leaves the goal window untouched.
type QuarterWindowUpdate struct {
	Review *ReviewWindowUpdate
	Goal   *GoalWindowUpdate
}

// DatePtrEqual compares optional dates by value.
func DatePtrEqual(a, b *civil.Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
