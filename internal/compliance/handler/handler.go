package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"reviewcycle/internal/compliance/models"
	id "reviewcycle/pkg/domain"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/httputil"
	"reviewcycle/pkg/requestcontext"
)

type StatsService interface {
	GetLateSubmissionStats(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (*models.LateSubmissionStats, error)
	ListCompliance(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) ([]models.RosterEntry, error)
}

type PermissionService interface {
	Grant(ctx context.Context, req *models.GrantRequest) (*models.Permission, bool, error)
	Revoke(ctx context.Context, permissionID id.PermissionID) (*models.Permission, error)
	Update(ctx context.Context, permissionID id.PermissionID, req *models.UpdatePermissionRequest) (*models.Permission, error)
	RevokeFor(ctx context.Context, cycleID id.CycleID, employeeID id.EmployeeID, scope id.Quarter) ([]models.Permission, error)
	Check(ctx context.Context, employeeID id.EmployeeID, cycleID id.CycleID, quarter id.Quarter) (*models.Permission, error)
	Get(ctx context.Context, permissionID id.PermissionID) (*models.Permission, error)
	List(ctx context.Context, cycleID id.CycleID, activeOnly bool) ([]models.Permission, error)
	ListForEmployee(ctx context.Context, cycleID id.CycleID, employeeID id.EmployeeID) ([]models.Permission, error)
}

type DashboardService interface {
	GetManagerDashboard(ctx context.Context, managerID id.EmployeeID, cycleID id.CycleID) (*models.Dashboard, error)
	GetActiveDashboard(ctx context.Context, managerID id.EmployeeID) (*models.Dashboard, error)
}

// Handler serves late-submission statistics, grants and the manager dashboard.
type Handler struct {
	stats       StatsService
	permissions PermissionService
	dashboards  DashboardService
	logger      *slog.Logger
}

func New(stats StatsService, permissions PermissionService, dashboards DashboardService, logger *slog.Logger) *Handler {
	return &Handler{stats: stats, permissions: permissions, dashboards: dashboards, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/cycles/{cycleID}/late-submissions/stats", h.HandleGetStats)
	r.Get("/cycles/{cycleID}/late-submissions", h.HandleListCompliance)
	r.Get("/cycles/{cycleID}/permissions", h.HandleListPermissions)
	r.Get("/cycles/{cycleID}/employees/{employeeID}/late-submission", h.HandleEmployeePermissions)
	r.Put("/cycles/{cycleID}/employees/{employeeID}/late-submission/revoke", h.HandleRevokeFor)
	r.Get("/managers/{managerID}/dashboard", h.HandleGetDashboard)

	r.Route("/permissions/late-submission", func(r chi.Router) {
		r.Post("/", h.HandleGrant)
		r.Get("/{permissionID}", h.HandleGetPermission)
		r.Put("/{permissionID}", h.HandleUpdatePermission)
		r.Delete("/{permissionID}", h.HandleRevoke)
	})
}

func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cycleID, quarter, kind, err := parseDeadlineQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	stats, err := h.stats.GetLateSubmissionStats(ctx, cycleID, quarter, kind)
	if err != nil {
		h.writeError(ctx, w, "late submission stats failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleListCompliance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cycleID, quarter, kind, err := parseDeadlineQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	roster, err := h.stats.ListCompliance(ctx, cycleID, quarter, kind)
	if err != nil {
		h.writeError(ctx, w, "late submission roster failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"employees": roster})
}

func (h *Handler) HandleListPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cycleID, err := id.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		if activeOnly, err = strconv.ParseBool(raw); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "active must be true or false"))
			return
		}
	}
	perms, err := h.permissions.List(ctx, cycleID, activeOnly)
	if err != nil {
		h.writeError(ctx, w, "list permissions failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"permissions": perms})
}

// HandleEmployeePermissions returns the grant covering ?quarter= when given,
// otherwise every grant the employee holds in the cycle.
func (h *Handler) HandleEmployeePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cycleID, employeeID, err := parseEmployeePath(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	raw := r.URL.Query().Get("quarter")
	if raw == "" {
		perms, err := h.permissions.ListForEmployee(ctx, cycleID, employeeID)
		if err != nil {
			h.writeError(ctx, w, "list employee permissions failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"permissions": perms})
		return
	}
	quarter, err := id.ParseQuarter(raw)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.permissions.Check(ctx, employeeID, cycleID, quarter)
	if err != nil {
		h.writeError(ctx, w, "permission check failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"has_permission": p != nil, "permission": p})
}

func (h *Handler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.GrantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, reactivated, err := h.permissions.Grant(ctx, req)
	if err != nil {
		h.writeError(ctx, w, "late submission grant failed", err)
		return
	}
	status := http.StatusCreated
	if reactivated {
		status = http.StatusOK
	}
	httputil.WriteJSON(w, status, map[string]any{"permission": p, "reactivated": reactivated})
}

func (h *Handler) HandleGetPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	permissionID, err := id.ParsePermissionID(chi.URLParam(r, "permissionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.permissions.Get(ctx, permissionID)
	if err != nil {
		h.writeError(ctx, w, "get permission failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	permissionID, err := id.ParsePermissionID(chi.URLParam(r, "permissionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.permissions.Revoke(ctx, permissionID)
	if err != nil {
		h.writeError(ctx, w, "revoke permission failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleUpdatePermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	permissionID, err := id.ParsePermissionID(chi.URLParam(r, "permissionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdatePermissionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.permissions.Update(ctx, permissionID, req)
	if err != nil {
		h.writeError(ctx, w, "update permission failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleRevokeFor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cycleID, employeeID, err := parseEmployeePath(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.RevokeForRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	revoked, err := h.permissions.RevokeFor(ctx, cycleID, employeeID, req.ParsedScope())
	if err != nil {
		h.writeError(ctx, w, "revoke permissions failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"revoked": revoked})
}

// HandleGetDashboard uses ?cycle_id= when present and the active cycle
// otherwise. With no active cycle the dashboard is null.
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	managerID, err := id.ParseEmployeeID(chi.URLParam(r, "managerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var dashboard *models.Dashboard
	if raw := r.URL.Query().Get("cycle_id"); raw != "" {
		cycleID, err := id.ParseCycleID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		dashboard, err = h.dashboards.GetManagerDashboard(ctx, managerID, cycleID)
		if err != nil {
			h.writeError(ctx, w, "manager dashboard failed", err)
			return
		}
	} else {
		dashboard, err = h.dashboards.GetActiveDashboard(ctx, managerID)
		if err != nil {
			h.writeError(ctx, w, "manager dashboard failed", err)
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"dashboard": dashboard})
}

func parseDeadlineQuery(r *http.Request) (id.CycleID, id.Quarter, models.Kind, error) {
	cycleID, err := id.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		return id.CycleID{}, id.QuarterUnset, "", err
	}
	q := r.URL.Query()
	quarter, err := id.ParseQuarter(q.Get("quarter"))
	if err != nil {
		return id.CycleID{}, id.QuarterUnset, "", err
	}
	kind, err := models.ParseKind(q.Get("kind"))
	if err != nil {
		return id.CycleID{}, id.QuarterUnset, "", err
	}
	return cycleID, quarter, kind, nil
}

func parseEmployeePath(r *http.Request) (id.CycleID, id.EmployeeID, error) {
	cycleID, err := id.ParseCycleID(chi.URLParam(r, "cycleID"))
	if err != nil {
		return id.CycleID{}, id.EmployeeID{}, err
	}
	employeeID, err := id.ParseEmployeeID(chi.URLParam(r, "employeeID"))
	if err != nil {
		return id.CycleID{}, id.EmployeeID{}, err
	}
	return cycleID, employeeID, nil
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
