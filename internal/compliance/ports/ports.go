// Package ports declares what the compliance engine reads from the rest of the
// system. Every call is read-only except the PermissionStore writes.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks SubmissionQuery,EmployeeDirectory,GoalQuery,PermissionStore,WindowReader,CycleReader

import (
	"context"

	"cloud.google.com/go/civil"

	"reviewcycle/internal/compliance/models"
	windowmodels "reviewcycle/internal/window/models"
	id "reviewcycle/pkg/domain"
)

// SubmissionQuery reports who completed each side of an obligation.
// quarter is Q1..Q4 or YearEnd.
type SubmissionQuery interface {
	// SubmittedEmployeeIDs returns employees whose own submission is in.
	SubmittedEmployeeIDs(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (models.EmployeeSet, error)
	// ReviewedEmployeeIDs returns employees whose manager-side review is terminal.
	ReviewedEmployeeIDs(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (models.EmployeeSet, error)
}

type EmployeeDirectory interface {
	ActiveEmployeesJoinedOnOrBefore(ctx context.Context, date civil.Date) ([]models.Employee, error)
	DirectReportsOf(ctx context.Context, managerID id.EmployeeID) ([]models.Employee, error)
	// FindEmployee returns sentinel.ErrNotFound for an unknown ID.
	FindEmployee(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error)
}

type GoalQuery interface {
	// PendingGoalApprovals counts submitted goals awaiting manager approval.
	PendingGoalApprovals(ctx context.Context, cycleID id.CycleID, employeeIDs []id.EmployeeID) (int, error)
}

// PermissionStore persists late-submission grants. Lookups return
// sentinel.ErrNotFound; Create returns sentinel.ErrConflict for a duplicate key.
type PermissionStore interface {
	FindByID(ctx context.Context, permissionID id.PermissionID) (*models.Permission, error)
	FindByKey(ctx context.Context, employeeID id.EmployeeID, cycleID id.CycleID, scope id.Quarter) (*models.Permission, error)
	ListByCycle(ctx context.Context, cycleID id.CycleID) ([]models.Permission, error)
	ListForEmployee(ctx context.Context, cycleID id.CycleID, employeeID id.EmployeeID) ([]models.Permission, error)
	Create(ctx context.Context, p *models.Permission) error
	Update(ctx context.Context, p *models.Permission) error
}

// WindowReader is satisfied by the window service. Unstored review windows come
// back as defaults.
type WindowReader interface {
	GetQuarterWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*windowmodels.QuarterWindow, error)
}

// CycleReader is satisfied by the cycle service and returns domain errors.
type CycleReader interface {
	GetCycle(ctx context.Context, cycleID id.CycleID) (*windowmodels.Cycle, error)
	GetActiveCycle(ctx context.Context) (*windowmodels.Cycle, error)
}
