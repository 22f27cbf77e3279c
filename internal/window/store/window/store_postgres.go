package window

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reviewcycle/internal/platform/postgres"
	"reviewcycle/internal/window/models"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/sentinel"
)

// PostgresStore persists windows in quarter_review_windows and quarter_goal_windows.
// Writes are insert-or-replace keyed by (cycle_id, quarter); callers serialize
// the read-merge-write through the transaction in ctx.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindReviewWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.ReviewWindow, error) {
	query := `
		SELECT cycle_id, quarter, quarter_start, quarter_end, self_review_start, self_review_end,
			manager_review_start, manager_review_end, updated_at
		FROM quarter_review_windows
		WHERE cycle_id = $1 AND quarter = $2
	`
	w, err := scanReviewWindow(postgres.Execer(ctx, s.db).QueryRowContext(ctx, query, cycleID.String(), quarter.Number()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find review window: %w", err)
	}
	return w, nil
}

func (s *PostgresStore) SaveReviewWindow(ctx context.Context, w *models.ReviewWindow) error {
	query := `
		INSERT INTO quarter_review_windows (
			cycle_id, quarter, quarter_start, quarter_end, self_review_start, self_review_end,
			manager_review_start, manager_review_end, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (cycle_id, quarter) DO UPDATE SET
			quarter_start = EXCLUDED.quarter_start,
			quarter_end = EXCLUDED.quarter_end,
			self_review_start = EXCLUDED.self_review_start,
			self_review_end = EXCLUDED.self_review_end,
			manager_review_start = EXCLUDED.manager_review_start,
			manager_review_end = EXCLUDED.manager_review_end,
			updated_at = EXCLUDED.updated_at
	`
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		w.CycleID.String(),
		w.Quarter.Number(),
		postgres.DateArg(w.QuarterStart),
		postgres.DateArg(w.QuarterEnd),
		postgres.NullDateArg(w.SelfReviewStart),
		postgres.NullDateArg(w.SelfReviewEnd),
		postgres.DateArg(w.ManagerReviewStart),
		postgres.DateArg(w.ManagerReviewEnd),
		w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save review window: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindGoalWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.GoalWindow, error) {
	query := `
		SELECT cycle_id, quarter, goal_submission_start, goal_submission_end, goal_approval_start,
			goal_approval_end, allow_late_goal_submission, status, updated_at
		FROM quarter_goal_windows
		WHERE cycle_id = $1 AND quarter = $2
	`
	w, err := scanGoalWindow(postgres.Execer(ctx, s.db).QueryRowContext(ctx, query, cycleID.String(), quarter.Number()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find goal window: %w", err)
	}
	return w, nil
}

func (s *PostgresStore) SaveGoalWindow(ctx context.Context, w *models.GoalWindow) error {
	query := `
		INSERT INTO quarter_goal_windows (
			cycle_id, quarter, goal_submission_start, goal_submission_end, goal_approval_start,
			goal_approval_end, allow_late_goal_submission, status, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (cycle_id, quarter) DO UPDATE SET
			goal_submission_start = EXCLUDED.goal_submission_start,
			goal_submission_end = EXCLUDED.goal_submission_end,
			goal_approval_start = EXCLUDED.goal_approval_start,
			goal_approval_end = EXCLUDED.goal_approval_end,
			allow_late_goal_submission = EXCLUDED.allow_late_goal_submission,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		w.CycleID.String(),
		w.Quarter.Number(),
		postgres.NullDateArg(w.GoalSubmissionStart),
		postgres.NullDateArg(w.GoalSubmissionEnd),
		postgres.NullDateArg(w.GoalApprovalStart),
		postgres.NullDateArg(w.GoalApprovalEnd),
		w.AllowLateGoalSubmission,
		string(w.Status),
		w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save goal window: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewWindow(row rowScanner) (*models.ReviewWindow, error) {
	var (
		w                          models.ReviewWindow
		cycleID                    string
		quarter                    int
		qStart, qEnd, mStart, mEnd sql.NullTime
		sStart, sEnd               sql.NullTime
	)
	if err := row.Scan(&cycleID, &quarter, &qStart, &qEnd, &sStart, &sEnd, &mStart, &mEnd, &w.UpdatedAt); err != nil {
		return nil, err
	}
	parsedCycle, err := id.ParseCycleID(cycleID)
	if err != nil {
		return nil, fmt.Errorf("decode cycle id: %w", err)
	}
	q, err := id.QuarterNumber(quarter)
	if err != nil {
		return nil, fmt.Errorf("decode quarter: %w", err)
	}
	w.CycleID = parsedCycle
	w.Quarter = q
	w.QuarterStart = postgres.DateOf(qStart.Time)
	w.QuarterEnd = postgres.DateOf(qEnd.Time)
	w.SelfReviewStart = postgres.NullDateOf(sStart)
	w.SelfReviewEnd = postgres.NullDateOf(sEnd)
	w.ManagerReviewStart = postgres.DateOf(mStart.Time)
	w.ManagerReviewEnd = postgres.DateOf(mEnd.Time)
	return &w, nil
}

func scanGoalWindow(row rowScanner) (*models.GoalWindow, error) {
	var (
		w                  models.GoalWindow
		cycleID, status    string
		quarter            int
		subStart, subEnd   sql.NullTime
		apprStart, apprEnd sql.NullTime
	)
	if err := row.Scan(&cycleID, &quarter, &subStart, &subEnd, &apprStart, &apprEnd, &w.AllowLateGoalSubmission, &status, &w.UpdatedAt); err != nil {
		return nil, err
	}
	parsedCycle, err := id.ParseCycleID(cycleID)
	if err != nil {
		return nil, fmt.Errorf("decode cycle id: %w", err)
	}
	q, err := id.QuarterNumber(quarter)
	if err != nil {
		return nil, fmt.Errorf("decode quarter: %w", err)
	}
	w.CycleID = parsedCycle
	w.Quarter = q
	w.GoalSubmissionStart = postgres.NullDateOf(subStart)
	w.GoalSubmissionEnd = postgres.NullDateOf(subEnd)
	w.GoalApprovalStart = postgres.NullDateOf(apprStart)
	w.GoalApprovalEnd = postgres.NullDateOf(apprEnd)
	w.Status = models.GoalWindowStatus(status)
	return &w, nil
}
