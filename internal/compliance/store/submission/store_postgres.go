package submission

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/platform/postgres"
	id "reviewcycle/pkg/domain"
)

// PostgresStore reads submission state from goals, quarterly_reviews and
// year_end_reviews. It implements both ports.SubmissionQuery and ports.GoalQuery.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SubmittedEmployeeIDs(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (models.EmployeeSet, error) {
	if err := checkScope(quarter, kind); err != nil {
		return nil, err
	}
	switch {
	case kind == models.KindGoal:
		return s.employeeSet(ctx, "list goal submitters", `
			SELECT DISTINCT employee_id FROM goals
			WHERE cycle_id = $1 AND quarter = $2 AND status = ANY($3)`,
			cycleID.String(), quarter.Number(), pq.Array(goalSubmitted))
	case quarter == id.YearEnd:
		return s.employeeSet(ctx, "list year-end self-review submitters", `
			SELECT employee_id FROM year_end_reviews
			WHERE cycle_id = $1 AND self_review_status = $2`,
			cycleID.String(), StatusSubmitted)
	default:
		return s.employeeSet(ctx, "list quarterly self-review submitters", `
			SELECT employee_id FROM quarterly_reviews
			WHERE cycle_id = $1 AND quarter = $2 AND self_review_status = $3`,
			cycleID.String(), quarter.Number(), StatusSubmitted)
	}
}

func (s *PostgresStore) ReviewedEmployeeIDs(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (models.EmployeeSet, error) {
	if err := checkScope(quarter, kind); err != nil {
		return nil, err
	}
	switch {
	case kind == models.KindGoal:
		return s.employeeSet(ctx, "list approved goal owners", `
			SELECT DISTINCT employee_id FROM goals
			WHERE cycle_id = $1 AND quarter = $2 AND status = ANY($3)`,
			cycleID.String(), quarter.Number(), pq.Array(goalReviewed))
	case quarter == id.YearEnd:
		return s.employeeSet(ctx, "list year-end reviewed employees", `
			SELECT employee_id FROM year_end_reviews
			WHERE cycle_id = $1 AND manager_review_status = ANY($2)`,
			cycleID.String(), pq.Array(yearEndReviewed))
	default:
		return s.employeeSet(ctx, "list quarterly reviewed employees", `
			SELECT employee_id FROM quarterly_reviews
			WHERE cycle_id = $1 AND quarter = $2 AND manager_review_status = ANY($3)`,
			cycleID.String(), quarter.Number(), pq.Array(quarterlyReviewed))
	}
}

// PendingGoalApprovals counts goals in the submitted state owned by employeeIDs.
func (s *PostgresStore) PendingGoalApprovals(ctx context.Context, cycleID id.CycleID, employeeIDs []id.EmployeeID) (int, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	raw := make([]string, len(employeeIDs))
	for i, e := range employeeIDs {
		raw[i] = e.String()
	}
	query := `
		SELECT COUNT(*) FROM goals
		WHERE cycle_id = $1 AND employee_id = ANY($2::uuid[]) AND status = $3
	`
	var n int
	err := postgres.Execer(ctx, s.db).QueryRowContext(ctx, query, cycleID.String(), pq.Array(raw), StatusSubmitted).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending goal approvals: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) employeeSet(ctx context.Context, op, query string, args ...any) (models.EmployeeSet, error) {
	rows, err := postgres.Execer(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := models.NewEmployeeSet()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		employeeID, err := id.ParseEmployeeID(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out.Add(employeeID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
