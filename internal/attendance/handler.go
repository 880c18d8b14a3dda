package attendance

import (
	"context"
	"net/http"
	"time"

	"github.com/stafftrack/hrm-backend/internal"
	"github.com/stafftrack/hrm-backend/internal/transport"
	"github.com/stafftrack/hrm-backend/pkg/logger"
)

type ServiceAPI interface {
	StartBreak(ctx context.Context, userID int64, now time.Time) error
	EndBreak(ctx context.Context, userID int64, now time.Time) error
	Today(ctx context.Context, userID int64, now time.Time) (*Attendance, error)
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

func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.StartBreak(r.Context(), user.ID, time.Now()); err != nil {
		switch err {
		case ErrNoActiveSession:
			h.WriteError(w, http.StatusConflict, "no active session; log in first")
		case ErrBreakAlreadyOpen:
			h.WriteError(w, http.StatusConflict, "a break is already open")
		default:
			h.Logger.Error("start break failed", "error", err, "user_id", user.ID)
			h.WriteError(w, http.StatusInternalServerError, "failed to start break")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "break started"})
}

func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.EndBreak(r.Context(), user.ID, time.Now()); err != nil {
		switch err {
		case ErrNoOpenBreak:
			h.WriteError(w, http.StatusNotFound, "no open break to end")
		default:
			h.Logger.Error("end break failed", "error", err, "user_id", user.ID)
			h.WriteError(w, http.StatusInternalServerError, "failed to end break")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "break ended"})
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	att, err := h.Service.Today(r.Context(), user.ID, time.Now())
	if err != nil {
		switch err {
		case ErrNotFound:
			h.WriteError(w, http.StatusNotFound, "no attendance record for today")
		default:
			h.Logger.Error("fetch today attendance failed", "error", err, "user_id", user.ID)
			h.WriteError(w, http.StatusInternalServerError, "failed to fetch attendance")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, att)
}
