// Package window schedules the review and goal windows of each fiscal quarter
// and manages the cycle lifecycle around them.
package window

import (
	"log/slog"

	"reviewcycle/internal/window/handler"
	"reviewcycle/internal/window/service"
)

// Service owns quarter-window reads and read-merge-write upserts.
type Service = service.WindowService

// CycleService owns cycle creation and status transitions.
type CycleService = service.CycleService

// Handler wires HTTP endpoints to both services.
type Handler = handler.Handler

func NewService(cycles service.CycleStore, windows service.WindowStore, opts ...service.Option) (*Service, error) {
	return service.New(cycles, windows, opts...)
}

func NewCycleService(cycles service.CycleStore, opts ...service.CycleOption) (*CycleService, error) {
	return service.NewCycleService(cycles, opts...)
}

func NewHandler(windows *Service, cycles *CycleService, logger *slog.Logger) *Handler {
	return handler.New(windows, cycles, logger)
}
