package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"

	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/platform/postgres"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/sentinel"
)

// PostgresStore reads the employees table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const employeeColumns = `id, emp_code, full_name, department, manager_id, join_date, status`

func (s *PostgresStore) Save(ctx context.Context, e *models.Employee) error {
	query := `INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			emp_code = EXCLUDED.emp_code,
			full_name = EXCLUDED.full_name,
			department = EXCLUDED.department,
			manager_id = EXCLUDED.manager_id,
			join_date = EXCLUDED.join_date,
			status = EXCLUDED.status`
	var manager sql.NullString
	if e.ManagerID != nil {
		manager = sql.NullString{String: e.ManagerID.String(), Valid: true}
	}
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		e.ID.String(),
		e.EmpCode,
		e.FullName,
		e.Department,
		manager,
		postgres.DateArg(e.JoinDate),
		string(e.Status),
	)
	if err != nil {
		return fmt.Errorf("save employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindEmployee(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(postgres.Execer(ctx, s.db).QueryRowContext(ctx, query, employeeID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) ActiveEmployeesJoinedOnOrBefore(ctx context.Context, date civil.Date) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE status = 'active' AND join_date <= $1
		ORDER BY emp_code`
	return s.query(ctx, "list eligible employees", query, postgres.DateArg(date))
}

func (s *PostgresStore) DirectReportsOf(ctx context.Context, managerID id.EmployeeID) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE manager_id = $1 AND status = 'active'
		ORDER BY emp_code`
	return s.query(ctx, "list direct reports", query, managerID.String())
}

func (s *PostgresStore) query(ctx context.Context, op, query string, args ...any) ([]models.Employee, error) {
	rows, err := postgres.Execer(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (*models.Employee, error) {
	var (
		e       models.Employee
		rawID   string
		manager sql.NullString
		joined  sql.NullTime
		status  string
	)
	if err := row.Scan(&rawID, &e.EmpCode, &e.FullName, &e.Department, &manager, &joined, &status); err != nil {
		return nil, err
	}
	employeeID, err := id.ParseEmployeeID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan employee id: %w", err)
	}
	e.ID = employeeID
	if manager.Valid {
		managerID, err := id.ParseEmployeeID(manager.String)
		if err != nil {
			return nil, fmt.Errorf("scan manager id: %w", err)
		}
		e.ManagerID = &managerID
	}
	e.JoinDate = postgres.DateOf(joined.Time)
	e.Status = models.EmployeeStatus(status)
	return &e, nil
}
