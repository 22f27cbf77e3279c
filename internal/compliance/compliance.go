// Package compliance reports who missed a submission deadline, manages the
// late-submission grants that let them submit anyway, and builds the manager
// dashboard of outstanding work.
package compliance

import (
	"log/slog"

	"reviewcycle/internal/compliance/dashboard"
	"reviewcycle/internal/compliance/handler"
	"reviewcycle/internal/compliance/ports"
	"reviewcycle/internal/compliance/service"
)

type (
	StatsService      = service.StatsService
	PermissionService = service.PermissionService
	DashboardService  = dashboard.Service
	Handler           = handler.Handler
)

// Stores groups the read and write ports every compliance service draws from.
// Submissions and Goals are usually the same value.
type Stores struct {
	Directory   ports.EmployeeDirectory
	Submissions ports.SubmissionQuery
	Goals       ports.GoalQuery
	Permissions ports.PermissionStore
	Windows     ports.WindowReader
	Cycles      ports.CycleReader
}

// Services is the assembled module.
type Services struct {
	Stats       *StatsService
	Permissions *PermissionService
	Dashboards  *DashboardService
}

func New(stores Stores, opts []service.Option, dashboardOpts ...dashboard.Option) (*Services, error) {
	stats, err := service.NewStatsService(stores.Windows, stores.Cycles, stores.Directory, stores.Submissions, stores.Permissions, opts...)
	if err != nil {
		return nil, err
	}
	permissions, err := service.NewPermissionService(stores.Permissions, stores.Cycles, stores.Directory, opts...)
	if err != nil {
		return nil, err
	}
	dashboards, err := dashboard.New(stores.Directory, stores.Submissions, stores.Goals, stores.Windows, stores.Cycles, dashboardOpts...)
	if err != nil {
		return nil, err
	}
	return &Services{Stats: stats, Permissions: permissions, Dashboards: dashboards}, nil
}

func (s *Services) Handler(logger *slog.Logger) *Handler {
	return handler.New(s.Stats, s.Permissions, s.Dashboards, logger)
}
