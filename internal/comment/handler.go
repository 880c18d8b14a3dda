package comment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/stafftrack/hrm-backend/internal"
	"github.com/stafftrack/hrm-backend/internal/transport"
	"github.com/stafftrack/hrm-backend/pkg/logger"
)

type ServiceAPI interface {
	Thread(ctx context.Context, taskID int64, viewer internal.AuthUser) ([]*Comment, error)
	PostComment(ctx context.Context, taskID int64, author internal.AuthUser, dto PostCommentDTO) (*Comment, error)
	MarkSeen(ctx context.Context, taskID int64, viewer internal.AuthUser) error
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

func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	comments, err := h.Service.Thread(r.Context(), taskID, *user)
	if err != nil {
		h.writeServiceError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusOK, ThreadResponse{Comments: comments})
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var dto PostCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.Service.PostComment(r.Context(), taskID, *user, dto)
	if err != nil {
		h.writeServiceError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.Service.MarkSeen(r.Context(), taskID, *user); err != nil {
		h.writeServiceError(w, err, taskID)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "comments marked seen"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, taskID int64) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		h.WriteError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, ErrNotAllowed):
		h.WriteError(w, http.StatusForbidden, "not a participant of this task")
	default:
		h.Logger.Error("comment operation failed", "error", err, "task_id", taskID)
		h.WriteError(w, http.StatusInternalServerError, "comment operation failed")
	}
}

func taskIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "taskId"), 10, 64)
}
