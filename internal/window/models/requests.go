package models

import (
	"strings"

	"cloud.google.com/go/civil"

	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/validation"
)

// CreateCycleRequest is the body of POST /cycles.
type CreateCycleRequest struct {
	Name                      string      `json:"name" validate:"required,max=128"`
	FiscalYear                int         `json:"fiscal_year" validate:"required,gte=2000,lte=2100"`
	StartDate                 *civil.Date `json:"start_date" validate:"required"`
	EndDate                   *civil.Date `json:"end_date" validate:"required"`
	CalibrationStart          *civil.Date `json:"calibration_start,omitempty"`
	CalibrationEnd            *civil.Date `json:"calibration_end,omitempty"`
	ReleaseDate               *civil.Date `json:"release_date,omitempty"`
	YearEndSelfReviewStart    *civil.Date `json:"year_end_self_review_start,omitempty"`
	YearEndSelfReviewEnd      *civil.Date `json:"year_end_self_review_end,omitempty"`
	YearEndManagerReviewStart *civil.Date `json:"year_end_manager_review_start,omitempty"`
	YearEndManagerReviewEnd   *civil.Date `json:"year_end_manager_review_end,omitempty"`
}

func (r *CreateCycleRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *CreateCycleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	for field, d := range map[string]*civil.Date{
		"start_date": r.StartDate, "end_date": r.EndDate,
		"calibration_start": r.CalibrationStart, "calibration_end": r.CalibrationEnd,
		"release_date": r.ReleaseDate,
	} {
		if d != nil && !d.IsValid() {
			return dErrors.Validation(field, field+" is not a valid date", "", "")
		}
	}
	if r.StartDate.After(*r.EndDate) {
		return dErrors.Validation("start_date", "start_date must not be after end_date", "", r.EndDate.String())
	}
	return nil
}

// Schedule extracts the optional dates.
func (r *CreateCycleRequest) Schedule() CycleSchedule {
	return CycleSchedule{
		CalibrationStart:          r.CalibrationStart,
		CalibrationEnd:            r.CalibrationEnd,
		ReleaseDate:               r.ReleaseDate,
		YearEndSelfReviewStart:    r.YearEndSelfReviewStart,
		YearEndSelfReviewEnd:      r.YearEndSelfReviewEnd,
		YearEndManagerReviewStart: r.YearEndManagerReviewStart,
		YearEndManagerReviewEnd:   r.YearEndManagerReviewEnd,
	}
}

// UpdateCycleRequest is the body of PUT /cycles/{cycleID}. Omitted fields keep
// their stored values; at least one field is required.
type UpdateCycleRequest struct {
	Name                      *string     `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	StartDate                 *civil.Date `json:"start_date,omitempty"`
	EndDate                   *civil.Date `json:"end_date,omitempty"`
	CalibrationStart          *civil.Date `json:"calibration_start,omitempty"`
	CalibrationEnd            *civil.Date `json:"calibration_end,omitempty"`
	ReleaseDate               *civil.Date `json:"release_date,omitempty"`
	YearEndSelfReviewStart    *civil.Date `json:"year_end_self_review_start,omitempty"`
	YearEndSelfReviewEnd      *civil.Date `json:"year_end_self_review_end,omitempty"`
	YearEndManagerReviewStart *civil.Date `json:"year_end_manager_review_start,omitempty"`
	YearEndManagerReviewEnd   *civil.Date `json:"year_end_manager_review_end,omitempty"`
}

func (r *UpdateCycleRequest) Normalize() {
	if r == nil || r.Name == nil {
		return
	}
	name := strings.TrimSpace(*r.Name)
	r.Name = &name
}

func (r *UpdateCycleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	dates := map[string]*civil.Date{
		"start_date": r.StartDate, "end_date": r.EndDate,
		"calibration_start": r.CalibrationStart, "calibration_end": r.CalibrationEnd,
		"release_date":               r.ReleaseDate,
		"year_end_self_review_start": r.YearEndSelfReviewStart, "year_end_self_review_end": r.YearEndSelfReviewEnd,
		"year_end_manager_review_start": r.YearEndManagerReviewStart, "year_end_manager_review_end": r.YearEndManagerReviewEnd,
	}
	empty := r.Name == nil
	for field, d := range dates {
		if d == nil {
			continue
		}
		empty = false
		if !d.IsValid() {
			return dErrors.Validation(field, field+" is not a valid date", "", "")
		}
	}
	if empty {
		return dErrors.New(dErrors.CodeBadRequest, "at least one field is required")
	}
	return nil
}

// ToUpdate converts the request into the typed update.
func (r *UpdateCycleRequest) ToUpdate() CycleUpdate {
	return CycleUpdate{
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Schedule: CycleSchedule{
			CalibrationStart:          r.CalibrationStart,
			CalibrationEnd:            r.CalibrationEnd,
			ReleaseDate:               r.ReleaseDate,
			YearEndSelfReviewStart:    r.YearEndSelfReviewStart,
			YearEndSelfReviewEnd:      r.YearEndSelfReviewEnd,
			YearEndManagerReviewStart: r.YearEndManagerReviewStart,
			YearEndManagerReviewEnd:   r.YearEndManagerReviewEnd,
		},
	}
}

// TransitionCycleRequest is the body of POST /cycles/{cycleID}/status.
type TransitionCycleRequest struct {
	Status CycleStatus `json:"status" validate:"required,oneof=draft active closed archived"`
}

func (r *TransitionCycleRequest) Normalize() {
	if r == nil {
		return
	}
	r.Status = CycleStatus(strings.ToLower(strings.TrimSpace(string(r.Status))))
}

func (r *TransitionCycleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Struct(r)
}

// ReviewWindowRequest is the review part of PUT /cycles/{cycleID}/quarters/{quarter}/window.
type ReviewWindowRequest struct {
	QuarterStart       *civil.Date `json:"quarter_start,omitempty"`
	QuarterEnd         *civil.Date `json:"quarter_end,omitempty"`
	SelfReviewStart    *civil.Date `json:"self_review_start,omitempty"`
	SelfReviewEnd      *civil.Date `json:"self_review_end,omitempty"`
	ClearSelfReview    bool        `json:"clear_self_review,omitempty"`
	ManagerReviewStart *civil.Date `json:"manager_review_start,omitempty"`
	ManagerReviewEnd   *civil.Date `json:"manager_review_end,omitempty"`
}

// GoalWindowRequest is the goal part of the quarter window body.
type GoalWindowRequest struct {
	GoalSubmissionStart     *civil.Date       `json:"goal_submission_start,omitempty"`
	GoalSubmissionEnd       *civil.Date       `json:"goal_submission_end,omitempty"`
	ClearGoalSubmission     bool              `json:"clear_goal_submission,omitempty"`
	GoalApprovalStart       *civil.Date       `json:"goal_approval_start,omitempty"`
	GoalApprovalEnd         *civil.Date       `json:"goal_approval_end,omitempty"`
	ClearGoalApproval       bool              `json:"clear_goal_approval,omitempty"`
	AllowLateGoalSubmission *bool             `json:"allow_late_goal_submission,omitempty"`
	Status                  *GoalWindowStatus `json:"status,omitempty" validate:"omitempty,oneof=draft open closed"`
}

// QuarterWindowRequest is the body of PUT /cycles/{cycleID}/quarters/{quarter}/window.
type QuarterWindowRequest struct {
	Review *ReviewWindowRequest `json:"review,omitempty"`
	Goal   *GoalWindowRequest   `json:"goal,omitempty"`
}

func (r *QuarterWindowRequest) Normalize() {
	if r == nil || r.Goal == nil || r.Goal.Status == nil {
		return
	}
	st := GoalWindowStatus(strings.ToLower(strings.TrimSpace(string(*r.Goal.Status))))
	r.Goal.Status = &st
}

func (r *QuarterWindowRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Goal != nil {
		if err := validation.Struct(r.Goal); err != nil {
			return err
		}
	}
	return nil
}

// ToUpdate converts the request into the typed update.
func (r *QuarterWindowRequest) ToUpdate() QuarterWindowUpdate {
	var upd QuarterWindowUpdate
	if r.Review != nil {
		upd.Review = &ReviewWindowUpdate{
			QuarterStart:       r.Review.QuarterStart,
			QuarterEnd:         r.Review.QuarterEnd,
			SelfReviewStart:    r.Review.SelfReviewStart,
			SelfReviewEnd:      r.Review.SelfReviewEnd,
			ClearSelfReview:    r.Review.ClearSelfReview,
			ManagerReviewStart: r.Review.ManagerReviewStart,
			ManagerReviewEnd:   r.Review.ManagerReviewEnd,
		}
	}
	if r.Goal != nil {
		upd.Goal = &GoalWindowUpdate{
			GoalSubmissionStart:     r.Goal.GoalSubmissionStart,
			GoalSubmissionEnd:       r.Goal.GoalSubmissionEnd,
			ClearGoalSubmission:     r.Goal.ClearGoalSubmission,
			GoalApprovalStart:       r.Goal.GoalApprovalStart,
			GoalApprovalEnd:         r.Goal.GoalApprovalEnd,
			ClearGoalApproval:       r.Goal.ClearGoalApproval,
			AllowLateGoalSubmission: r.Goal.AllowLateGoalSubmission,
			Status:                  r.Goal.Status,
		}
	}
	return upd
}
