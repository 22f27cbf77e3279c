package permission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/platform/postgres"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/sentinel"
)

// PostgresStore persists grants in late_submission_permissions. The scope
// column holds Quarter.Scope(); the unique (employee_id, cycle_id, scope)
// constraint surfaces as sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const permissionColumns = `id, employee_id, cycle_id, scope, reason, granted_by, granted_at, expires_at, revoked_at`

func (s *PostgresStore) FindByID(ctx context.Context, permissionID id.PermissionID) (*models.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM late_submission_permissions WHERE id = $1`
	p, err := scanPermission(postgres.Execer(ctx, s.db).QueryRowContext(ctx, query, permissionID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByKey(ctx context.Context, employeeID id.EmployeeID, cycleID id.CycleID, scope id.Quarter) (*models.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM late_submission_permissions
		WHERE employee_id = $1 AND cycle_id = $2 AND scope = $3`
	p, err := scanPermission(postgres.Execer(ctx, s.db).QueryRowContext(ctx, query,
		employeeID.String(), cycleID.String(), scope.Scope()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find permission by key: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListByCycle(ctx context.Context, cycleID id.CycleID) ([]models.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM late_submission_permissions
		WHERE cycle_id = $1 ORDER BY granted_at, id`
	return s.query(ctx, "list permissions", query, cycleID.String())
}

func (s *PostgresStore) ListForEmployee(ctx context.Context, cycleID id.CycleID, employeeID id.EmployeeID) ([]models.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM late_submission_permissions
		WHERE cycle_id = $1 AND employee_id = $2 ORDER BY granted_at, id`
	return s.query(ctx, "list employee permissions", query, cycleID.String(), employeeID.String())
}

func (s *PostgresStore) query(ctx context.Context, op, query string, args ...any) ([]models.Permission, error) {
	rows, err := postgres.Execer(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Permission, 0)
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Permission) error {
	query := `INSERT INTO late_submission_permissions (` + permissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		p.ID.String(),
		p.EmployeeID.String(),
		p.CycleID.String(),
		p.Scope.Scope(),
		p.Reason,
		p.GrantedBy,
		p.GrantedAt,
		postgres.NullTimeArg(p.ExpiresAt),
		postgres.NullTimeArg(p.RevokedAt),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert permission: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Permission) error {
	query := `UPDATE late_submission_permissions
		SET reason = $2, granted_by = $3, granted_at = $4, expires_at = $5, revoked_at = $6
		WHERE id = $1`
	res, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		p.ID.String(),
		p.Reason,
		p.GrantedBy,
		p.GrantedAt,
		postgres.NullTimeArg(p.ExpiresAt),
		postgres.NullTimeArg(p.RevokedAt),
	)
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPermission(row scanner) (*models.Permission, error) {
	var (
		p                            models.Permission
		rawID, rawEmployee, rawCycle string
		scope                        string
		expiresAt, revokedAt         sql.NullTime
	)
	err := row.Scan(&rawID, &rawEmployee, &rawCycle, &scope, &p.Reason, &p.GrantedBy,
		&p.GrantedAt, &expiresAt, &revokedAt)
	if err != nil {
		return nil, err
	}
	if p.ID, err = id.ParsePermissionID(rawID); err != nil {
		return nil, fmt.Errorf("scan permission id: %w", err)
	}
	if p.EmployeeID, err = id.ParseEmployeeID(rawEmployee); err != nil {
		return nil, fmt.Errorf("scan employee id: %w", err)
	}
	if p.CycleID, err = id.ParseCycleID(rawCycle); err != nil {
		return nil, fmt.Errorf("scan cycle id: %w", err)
	}
	if p.Scope, err = id.QuarterFromScope(scope); err != nil {
		return nil, err
	}
	p.ExpiresAt = postgres.NullTimeOf(expiresAt)
	p.RevokedAt = postgres.NullTimeOf(revokedAt)
	return &p, nil
}
