package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/stafftrack/hrm-backend/internal/transport"
	"github.com/stafftrack/hrm-backend/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*User, error)
	ToggleStatus(ctx context.Context, userID int64) (*User, error)
	ChangeRole(ctx context.Context, userID int64, role string) (*User, error)
	Stats(ctx context.Context) (*AdminStats, error)
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
	users, err := h.Service.List(r.Context())
	if err != nil {
		h.Logger.Error("list users failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}

	h.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	updated, err := h.Service.ToggleStatus(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("toggle user status failed", "error", err, "user_id", userID)
		h.WriteError(w, http.StatusInternalServerError, "failed to update user status")
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto ChangeRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.ChangeRole(r.Context(), userID, dto.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			h.WriteError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, ErrInvalidRole):
			h.WriteError(w, http.StatusBadRequest, "invalid role")
		default:
			h.Logger.Error("change user role failed", "error", err, "user_id", userID)
			h.WriteError(w, http.StatusInternalServerError, "failed to update user role")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.Logger.Error("admin stats failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to fetch admin stats")
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func userIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
