package auth

import (
	"log/slog"
	"net/http"

	"github.com/stafftrack/hrm-backend/internal"
)

// RoleAuthorization gates routes on the role claim carried by the principal.
type RoleAuthorization struct {
	logger *slog.Logger
}

func NewRoleAuthorization(logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{logger: logger}
}

// RequireRoles allows the request through when the principal holds any of
// the given roles.
func (ra *RoleAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			ra.logger.Warn("access denied: insufficient role",
				"user_id", user.ID,
				"user_role", user.Role,
				"required_roles", roles)
			http.Error(w, `{"error": "access denied"}`, http.StatusForbidden)
		})
	}
}

func (ra *RoleAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleAdmin)
}

func (ra *RoleAuthorization) RequireManager() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleManager)
}

func (ra *RoleAuthorization) RequireAnyManager() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleManager, internal.RoleProjectManager)
}

func (ra *RoleAuthorization) RequireProjectManager() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleProjectManager)
}

func (ra *RoleAuthorization) RequireOperator() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleOperator)
}
