package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"reviewcycle/internal/compliance/metrics"
	"reviewcycle/internal/compliance/models"
	employeestore "reviewcycle/internal/compliance/store/employee"
	permissionstore "reviewcycle/internal/compliance/store/permission"
	"reviewcycle/internal/compliance/store/submission"
	windowmodels "reviewcycle/internal/window/models"
	windowservice "reviewcycle/internal/window/service"
	cyclestore "reviewcycle/internal/window/store/cycle"
	windowstore "reviewcycle/internal/window/store/window"
	id "reviewcycle/pkg/domain"
	auditmemory "reviewcycle/pkg/platform/audit/store/memory"
	"reviewcycle/pkg/requestcontext"
)

func d(m time.Month, day int) civil.Date {
	return civil.Date{Year: 2026, Month: m, Day: day}
}

func dp(m time.Month, day int) *civil.Date {
	v := d(m, day)
	return &v
}

func at(m time.Month, day int) time.Time {
	return time.Date(2026, m, day, 12, 0, 0, 0, time.UTC)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// world wires the real window services and in-memory compliance stores around
// one FY26 cycle.
type world struct {
	cycle       *windowmodels.Cycle
	windows     *windowservice.WindowService
	cycles      *windowservice.CycleService
	directory   *employeestore.InMemory
	submissions *submission.InMemory
	permissions *permissionstore.InMemory
	auditor     *auditmemory.InMemoryStore
	metrics     *metrics.Metrics
	registry    *prometheus.Registry
}

func newWorld(t require.TestingT) *world {
	cycles := cyclestore.NewInMemory()
	cycle, err := windowmodels.NewCycle(id.NewCycleID(), "FY26", 2026, d(time.January, 1), d(time.December, 31),
		windowmodels.CycleSchedule{
			YearEndSelfReviewStart: dp(time.December, 1),
			YearEndSelfReviewEnd:   dp(time.December, 15),
		}, at(time.January, 1))
	require.NoError(t, err)
	require.NoError(t, cycles.Create(context.Background(), cycle))

	windowSvc, err := windowservice.New(cycles, windowstore.NewInMemory(), windowservice.WithLogger(discardLogger()))
	require.NoError(t, err)
	cycleSvc, err := windowservice.NewCycleService(cycles, windowservice.WithCycleLogger(discardLogger()))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return &world{
		cycle:       cycle,
		windows:     windowSvc,
		cycles:      cycleSvc,
		directory:   employeestore.NewInMemory(),
		submissions: submission.NewInMemory(),
		permissions: permissionstore.NewInMemory(),
		auditor:     auditmemory.NewInMemoryStore(),
		metrics:     metrics.New(reg),
		registry:    reg,
	}
}

func (w *world) hire(t require.TestingT, code string, joined civil.Date) models.Employee {
	e := models.Employee{
		ID:       id.NewEmployeeID(),
		EmpCode:  code,
		FullName: "Employee " + code,
		JoinDate: joined,
		Status:   models.EmployeeActive,
	}
	require.NoError(t, w.directory.Save(context.Background(), &e))
	return e
}

func (w *world) options() []Option {
	return []Option{
		WithLogger(discardLogger()),
		WithMetrics(w.metrics),
		WithAuditStore(w.auditor),
	}
}

func ctxAt(t time.Time) context.Context {
	return requestcontext.WithActor(requestcontext.WithTime(context.Background(), t), "hr-admin")
}
