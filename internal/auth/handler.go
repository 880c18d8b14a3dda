package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stafftrack/hrm-backend/internal"
	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
	"github.com/stafftrack/hrm-backend/internal/transport"
	"github.com/stafftrack/hrm-backend/pkg/logger"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*RegisterResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Logout(ctx context.Context, userID int64) error
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(userID int64) (*userDatamodel.User, error)
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

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.Logger.Error("registration failed", "error", err, "email", dto.Email)

		switch err.(type) {
		case ValidationError:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			if err == ErrEmailTaken {
				h.WriteError(w, http.StatusConflict, err.Error())
				return
			}
			h.WriteError(w, http.StatusInternalServerError, "register failed")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("login failed", "error", err, "email", dto.Email)

		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case ErrUserDisabled:
			h.WriteError(w, http.StatusForbidden, "user is disabled")
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "login failed")
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if err := h.Service.Logout(r.Context(), user.ID); err != nil {
		h.Logger.Error("logout failed", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, LogoutResponse{Message: "logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, MeResponse{ID: user.ID, Email: user.Email, Role: user.Role})
}

// AuthMiddleware validates the bearer token, loads the user behind it and
// attaches the principal to the request context. The role comes from the
// stored user, not the claims, so role changes and disables apply to tokens
// minted before them.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "no token provided")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		u, err := h.Service.GetUser(claims.UserID)
		if err != nil {
			h.Logger.Error("failed to load user for token", "error", err, "user_id", claims.UserID)
			h.WriteError(w, http.StatusInternalServerError, "failed to load user")
			return
		}
		if u == nil {
			h.WriteError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		if !u.Enabled {
			h.WriteError(w, http.StatusForbidden, "user is disabled")
			return
		}

		principal := &internal.AuthUser{
			ID:    u.ID,
			Email: u.Email,
			Role:  u.Role,
		}

		ctx := internal.ContextWithUser(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
