package employee

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/stafftrack/hrm-backend/internal"
	"github.com/stafftrack/hrm-backend/internal/transport"
	"github.com/stafftrack/hrm-backend/pkg/logger"
)

type ServiceAPI interface {
	ListWithTasks(ctx context.Context, managerUserID int64) ([]Employee, error)
	Create(ctx context.Context, managerUserID int64, dto CreateEmployeeDTO) (*CreateEmployeeResponse, error)
	Dashboard(ctx context.Context, managerUserID int64, now time.Time) (*DashboardResponse, error)
	PerformanceList(ctx context.Context, managerUserID int64) ([]PerformanceRow, error)
	Detail(ctx context.Context, employeeID int64) (*DetailResponse, error)
	NewJoiners(ctx context.Context) ([]NewJoiner, error)
	Assign(ctx context.Context, dto AssignDTO) (*Detail, error)
	Managers(ctx context.Context, callerUserID int64) ([]ManagerGroup, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employees, err := h.Service.ListWithTasks(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list employees failed", "error", err, "manager_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch employees")
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Employees: employees})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.Service.Create(r.Context(), user.ID, dto)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			h.WriteError(w, http.StatusConflict, "email already registered")
			return
		}
		h.Logger.Error("create employee failed", "error", err, "manager_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to create employee")
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dashboard, err := h.Service.Dashboard(r.Context(), user.ID, time.Now())
	if err != nil {
		h.Logger.Error("employee dashboard failed", "error", err, "manager_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	h.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rows, err := h.Service.PerformanceList(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("performance list failed", "error", err, "manager_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch performance")
		return
	}

	h.WriteJSON(w, http.StatusOK, PerformanceListResponse{Employees: rows})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	detail, err := h.Service.Detail(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "employee not found")
			return
		}
		h.Logger.Error("employee detail failed", "error", err, "employee_id", employeeID)
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch employee")
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

// DetailPerformance serves the per-employee performance view; same computed
// payload as Detail.
func (h *Handler) DetailPerformance(w http.ResponseWriter, r *http.Request) {
	h.Detail(w, r)
}

func (h *Handler) NewJoiners(w http.ResponseWriter, r *http.Request) {
	joiners, err := h.Service.NewJoiners(r.Context())
	if err != nil {
		h.Logger.Error("new joiners failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch new joiners")
		return
	}

	h.WriteJSON(w, http.StatusOK, NewJoinersResponse{NewJoiners: joiners})
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	var dto AssignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.Assign(r.Context(), dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrManagerNotFound):
			h.WriteError(w, http.StatusNotFound, "target manager not found")
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotOperator):
			h.WriteError(w, http.StatusNotFound, "employee (operator) not found")
		default:
			h.Logger.Error("assign employee failed", "error", err, "employee_id", dto.EmployeeID)
			h.WriteError(w, http.StatusInternalServerError, "failed to assign employee")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, AssignResponse{
		Message:  "employee details updated and assigned successfully",
		Employee: *updated,
	})
}

func (h *Handler) Managers(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	managers, err := h.Service.Managers(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("managers list failed", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch managers")
		return
	}

	h.WriteJSON(w, http.StatusOK, ManagersResponse{Managers: managers})
}
