package cycle

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

// PostgresStore persists cycles in the cycles table. The cycles_single_active
// index turns a second active cycle into sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const cycleColumns = `id, name, fiscal_year, status, start_date, end_date, calibration_start,
	calibration_end, release_date, year_end_self_review_start, year_end_self_review_end,
	year_end_manager_review_start, year_end_manager_review_end, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, c *models.Cycle) error {
	query := `INSERT INTO cycles (` + cycleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		c.ID.String(),
		c.Name,
		c.FiscalYear,
		string(c.Status),
		postgres.DateArg(c.StartDate),
		postgres.DateArg(c.EndDate),
		postgres.NullDateArg(c.CalibrationStart),
		postgres.NullDateArg(c.CalibrationEnd),
		postgres.NullDateArg(c.ReleaseDate),
		postgres.NullDateArg(c.YearEndSelfReviewStart),
		postgres.NullDateArg(c.YearEndSelfReviewEnd),
		postgres.NullDateArg(c.YearEndManagerReviewStart),
		postgres.NullDateArg(c.YearEndManagerReviewEnd),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, cycleID id.CycleID) (*models.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE id = $1`
	c, err := scanCycle(postgres.Execer(ctx, s.db).QueryRowContext(ctx, query, cycleID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find cycle: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindActive(ctx context.Context) (*models.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE status = 'active' LIMIT 1`
	c, err := scanCycle(postgres.Execer(ctx, s.db).QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find active cycle: %w", err)
	}
	return c, nil
}

// Update writes the mutable columns. Name, fiscal year and creation time are fixed.
func (s *PostgresStore) Update(ctx context.Context, c *models.Cycle) error {
	query := `
		UPDATE cycles SET
			status = $2,
			start_date = $3,
			end_date = $4,
			calibration_start = $5,
			calibration_end = $6,
			release_date = $7,
			year_end_self_review_start = $8,
			year_end_self_review_end = $9,
			year_end_manager_review_start = $10,
			year_end_manager_review_end = $11,
			updated_at = $12
		WHERE id = $1
	`
	res, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		c.ID.String(),
		string(c.Status),
		postgres.DateArg(c.StartDate),
		postgres.DateArg(c.EndDate),
		postgres.NullDateArg(c.CalibrationStart),
		postgres.NullDateArg(c.CalibrationEnd),
		postgres.NullDateArg(c.ReleaseDate),
		postgres.NullDateArg(c.YearEndSelfReviewStart),
		postgres.NullDateArg(c.YearEndSelfReviewEnd),
		postgres.NullDateArg(c.YearEndManagerReviewStart),
		postgres.NullDateArg(c.YearEndManagerReviewEnd),
		c.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update cycle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cycle: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanCycle(row *sql.Row) (*models.Cycle, error) {
	var (
		c                            models.Cycle
		rawID, status                string
		start, end                   sql.NullTime
		calStart, calEnd, release    sql.NullTime
		yeSelfStart, yeSelfEnd       sql.NullTime
		yeManagerStart, yeManagerEnd sql.NullTime
	)
	err := row.Scan(&rawID, &c.Name, &c.FiscalYear, &status, &start, &end, &calStart, &calEnd,
		&release, &yeSelfStart, &yeSelfEnd, &yeManagerStart, &yeManagerEnd, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	cycleID, err := id.ParseCycleID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan cycle id: %w", err)
	}
	c.ID = cycleID
	c.Status = models.CycleStatus(status)
	c.StartDate = postgres.DateOf(start.Time)
	c.EndDate = postgres.DateOf(end.Time)
	c.CalibrationStart = postgres.NullDateOf(calStart)
	c.CalibrationEnd = postgres.NullDateOf(calEnd)
	c.ReleaseDate = postgres.NullDateOf(release)
	c.YearEndSelfReviewStart = postgres.NullDateOf(yeSelfStart)
	c.YearEndSelfReviewEnd = postgres.NullDateOf(yeSelfEnd)
	c.YearEndManagerReviewStart = postgres.NullDateOf(yeManagerStart)
	c.YearEndManagerReviewEnd = postgres.NullDateOf(yeManagerEnd)
	return &c, nil
}
