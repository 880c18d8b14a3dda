package task

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/stafftrack/hrm-backend/internal"
	"github.com/stafftrack/hrm-backend/internal/transport"
	"github.com/stafftrack/hrm-backend/pkg/logger"
)

const maxUploadBytes = 10 << 20

type ServiceAPI interface {
	CreateTask(ctx context.Context, createdByID int64, dto CreateTaskDTO) (*Task, error)
	GetTask(ctx context.Context, taskID int64) (*Task, error)
	TasksFor(ctx context.Context, userID int64) ([]*Task, error)
	DashboardFor(ctx context.Context, userID int64) (*Dashboard, error)
	SetStatus(ctx context.Context, taskID int64, status string, actorID int64) (*Task, error)
	SetPriority(ctx context.Context, taskID int64, priority string) (*Task, error)
	Transfer(ctx context.Context, taskID, newAssigneeID int64) (*Task, error)
	SoftDelete(ctx context.Context, taskID int64) error
	AttachFile(ctx context.Context, taskID int64, managerSide bool, fileURL string) (*Task, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	UploadDir string
	BaseURL   string
}

func NewHandler(svc ServiceAPI, uploadDir, baseURL string) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
		UploadDir:   uploadDir,
		BaseURL:     baseURL,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.Service.CreateTask(r.Context(), user.ID, dto)
	if err != nil {
		if errors.Is(err, ErrAssigneeNotFound) {
			h.WriteError(w, http.StatusNotFound, "assignee not found")
			return
		}
		h.Logger.Error("create task failed", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tasks, err := h.Service.TasksFor(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list tasks failed", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	h.WriteJSON(w, http.StatusOK, TaskListResponse{Tasks: tasks})
}

// Managed is the manager-side task list; managers are themselves assignees
// of the tasks they track.
func (h *Handler) Managed(w http.ResponseWriter, r *http.Request) {
	h.Mine(w, r)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dashboard, err := h.Service.DashboardFor(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("task dashboard failed", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	h.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := h.taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.SetStatus(r.Context(), taskID, dto.Status, user.ID)
	if err != nil {
		var running *RunningTaskError
		switch {
		case errors.As(err, &running):
			h.WriteJSON(w, http.StatusConflict, ConflictResponse{
				Error: "another task is already in progress",
				RunningTask: RunningTaskRef{
					ID:    running.RunningID,
					Title: running.RunningTitle,
				},
			})
		case errors.Is(err, ErrTaskNotFound):
			h.WriteError(w, http.StatusNotFound, "task not found")
		default:
			h.Logger.Error("update status failed", "error", err, "task_id", taskID)
			h.WriteError(w, http.StatusInternalServerError, "failed to update status")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	taskID, err := h.taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var dto UpdatePriorityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.SetPriority(r.Context(), taskID, dto.Priority)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			h.WriteError(w, http.StatusNotFound, "task not found")
			return
		}
		h.Logger.Error("update priority failed", "error", err, "task_id", taskID)
		h.WriteError(w, http.StatusInternalServerError, "failed to update priority")
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	taskID, err := h.taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var dto TransferDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.Transfer(r.Context(), taskID, dto.AssigneeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTaskNotFound):
			h.WriteError(w, http.StatusNotFound, "task not found")
		case errors.Is(err, ErrAssigneeNotFound):
			h.WriteError(w, http.StatusNotFound, "assignee not found")
		default:
			h.Logger.Error("transfer task failed", "error", err, "task_id", taskID)
			h.WriteError(w, http.StatusInternalServerError, "failed to transfer task")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, err := h.taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.Service.SoftDelete(r.Context(), taskID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			h.WriteError(w, http.StatusNotFound, "task not found")
			return
		}
		h.Logger.Error("delete task failed", "error", err, "task_id", taskID)
		h.WriteError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

// Upload stores a multipart "file" under the upload dir and records its URL
// on the side matching the caller's role.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID, err := h.taskIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name := uuid.NewString() + filepath.Ext(header.Filename)
	if err := h.saveFile(file, name); err != nil {
		h.Logger.Error("save upload failed", "error", err, "task_id", taskID)
		h.WriteError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	fileURL := h.BaseURL + "/" + name
	managerSide := internal.IsManagerRole(user.Role)
	if _, err := h.Service.AttachFile(r.Context(), taskID, managerSide, fileURL); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			h.WriteError(w, http.StatusNotFound, "task not found")
			return
		}
		h.Logger.Error("attach file failed", "error", err, "task_id", taskID)
		h.WriteError(w, http.StatusInternalServerError, "failed to attach file")
		return
	}

	h.WriteJSON(w, http.StatusOK, UploadResponse{FileURL: fileURL})
}

func (h *Handler) saveFile(src io.Reader, name string) error {
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

func (h *Handler) taskIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
