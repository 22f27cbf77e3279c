package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reviewcycle/internal/window/models"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/httputil"
	"reviewcycle/pkg/requestcontext"
)

// WindowService is the quarter-window surface the handler needs.
type WindowService interface {
	GetQuarterWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter) (*models.QuarterWindow, error)
	GetCycleWindows(ctx context.Context, cycleID id.CycleID) ([]models.QuarterWindow, error)
	UpsertQuarterWindow(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, upd models.QuarterWindowUpdate) (*models.QuarterWindow, error)
}

// CycleService is the cycle lifecycle surface the handler needs.
type CycleService interface {
	CreateCycle(ctx context.Context, req *models.CreateCycleRequest) (*models.Cycle, error)
	GetCycle(ctx context.Context, cycleID id.CycleID) (*models.Cycle, error)
	GetActiveCycle(ctx context.Context) (*models.Cycle, error)
	TransitionCycle(ctx context.Context, cycleID id.CycleID, req *models.TransitionCycleRequest) (*models.Cycle, error)
	UpdateSchedule(ctx context.Context, cycleID id.CycleID, req *models.UpdateCycleRequest) (*models.Cycle, error)
}

// Handler serves cycle and quarter-window endpoints.
type Handler struct {
	windows WindowService
	cycles  CycleService
	logger  *slog.Logger
}

func New(windows WindowService, cycles CycleService, logger *slog.Logger) *Handler {
	return &Handler{windows: windows, cycles: cycles, logger: logger}
}

// Register mounts the cycle and window routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cycles", h.HandleCreateCycle)
	r.Get("/cycles/active", h.HandleGetActiveCycle)
	r.Get("/cycles/{cycleID}", h.HandleGetCycle)
	r.Put("/cycles/{cycleID}", h.HandleUpdateCycle)
	r.Post("/cycles/{cycleID}/status", h.HandleTransitionCycle)
	r.Get("/cycles/{cycleID}/windows", h.HandleGetCycleWindows)
	r.Get("/cycles/{cycleID}/quarters/{quarter}/window", h.HandleGetQuarterWindow)
	r.Put("/cycles/{cycleID}/quarters/{quarter}/window", h.HandlePutQuarterWindow)
}

func (h *Handler) HandleCreateCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateCycleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.cycles.CreateCycle(ctx, req)
	if err != nil {
		h.writeError(ctx, w, "create cycle failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleGetCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cycleID, err := id.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.cycles.GetCycle(ctx, cycleID)
	if err != nil {
		h.writeError(ctx, w, "get cycle failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleGetActiveCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := h.cycles.GetActiveCycle(ctx)
	if err != nil {
		h.writeError(ctx, w, "get active cycle failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleTransitionCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cycleID, err := id.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.TransitionCycleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.cycles.TransitionCycle(ctx, cycleID, req)
	if err != nil {
		h.writeError(ctx, w, "cycle transition failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleUpdateCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cycleID, err := id.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateCycleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.cycles.UpdateSchedule(ctx, cycleID, req)
	if err != nil {
		h.writeError(ctx, w, "cycle update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleGetCycleWindows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cycleID, err := id.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	windows, err := h.windows.GetCycleWindows(ctx, cycleID)
	if err != nil {
		h.writeError(ctx, w, "get cycle windows failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"windows": windows})
}

func (h *Handler) HandleGetQuarterWindow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cycleID, quarter, err := parseWindowPath(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	qw, err := h.windows.GetQuarterWindow(ctx, cycleID, quarter)
	if err != nil {
		h.writeError(ctx, w, "get quarter window failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, qw)
}

func (h *Handler) HandlePutQuarterWindow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cycleID, quarter, err := parseWindowPath(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.QuarterWindowRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	qw, err := h.windows.UpsertQuarterWindow(ctx, cycleID, quarter, req.ToUpdate())
	if err != nil {
		h.writeError(ctx, w, "quarter window upsert failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, qw)
}

func parseWindowPath(r *http.Request) (id.CycleID, id.Quarter, error) {
	cycleID, err := id.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		return id.CycleID{}, id.QuarterUnset, err
	}
	quarter, err := id.ParseQuarter(chi.URLParam(r, "quarter"))
	if err != nil {
		return id.CycleID{}, id.QuarterUnset, err
	}
	return cycleID, quarter, nil
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
