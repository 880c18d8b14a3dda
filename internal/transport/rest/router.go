package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/stafftrack/hrm-backend/internal"
	"github.com/stafftrack/hrm-backend/internal/attendance"
	"github.com/stafftrack/hrm-backend/internal/auth"
	"github.com/stafftrack/hrm-backend/internal/comment"
	"github.com/stafftrack/hrm-backend/internal/employee"
	"github.com/stafftrack/hrm-backend/internal/task"
	"github.com/stafftrack/hrm-backend/internal/transport/middleware"
	"github.com/stafftrack/hrm-backend/internal/transport/swagger"
	"github.com/stafftrack/hrm-backend/internal/user"
)

type Handlers struct {
	Auth       *auth.Handler
	Roles      *auth.RoleAuthorization
	User       *user.Handler
	Employee   *employee.Handler
	Task       *task.Handler
	Comment    *comment.Handler
	Attendance *attendance.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)

			sr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.AuthMiddleware)
				ar.Post("/logout", h.Auth.Logout)
				ar.Get("/me", h.Auth.Me)
			})
		})

		// Everything below requires a valid bearer token.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.Use(h.Roles.RequireAdmin())
				ur.Get("/", h.User.List)
				ur.Get("/admin/stats", h.User.Stats)
				ur.Patch("/{id}/status", h.User.ToggleStatus)
				ur.Patch("/{id}/role", h.User.ChangeRole)
			})

			pr.Route("/employees", func(er chi.Router) {
				er.With(h.Roles.RequireProjectManager()).Get("/new-joiners", h.Employee.NewJoiners)
				er.With(h.Roles.RequireProjectManager()).Post("/assign", h.Employee.Assign)
				er.With(h.Roles.RequireAnyManager()).Get("/managers", h.Employee.Managers)

				er.Group(func(mr chi.Router) {
					mr.Use(h.Roles.RequireManager())
					mr.Get("/", h.Employee.List)
					mr.Post("/", h.Employee.Create)
					mr.Get("/dashboard", h.Employee.Dashboard)
					mr.Get("/performance", h.Employee.Performance)
					mr.Get("/{id}", h.Employee.Detail)
					mr.Get("/{id}/performance", h.Employee.DetailPerformance)
				})
			})

			pr.Route("/tasks", func(tr chi.Router) {
				tr.Get("/mine", h.Task.Mine)
				tr.Get("/dashboard", h.Task.Dashboard)
				tr.Patch("/{id}/status", h.Task.UpdateStatus)
				tr.Post("/{id}/upload", h.Task.Upload)

				tr.With(h.Roles.RequireAnyManager()).Get("/managed", h.Task.Managed)

				tr.Group(func(mr chi.Router) {
					mr.Use(h.Roles.RequireManager())
					mr.Post("/", h.Task.Create)
					mr.Patch("/{id}/priority", h.Task.UpdatePriority)
					mr.Patch("/{id}/transfer", h.Task.Transfer)
					mr.Delete("/{id}", h.Task.Delete)
				})
			})

			pr.Route("/comments", func(cr chi.Router) {
				cr.Get("/{taskId}", h.Comment.Thread)
				cr.Post("/{taskId}", h.Comment.Post)
				cr.Patch("/{taskId}/seen", h.Comment.MarkSeen)
			})

			pr.Route("/attendance", func(ar chi.Router) {
				ar.Use(h.Roles.RequireRoles(internal.RoleOperator))
				ar.Post("/break/start", h.Attendance.StartBreak)
				ar.Post("/break/end", h.Attendance.EndBreak)
				ar.Get("/today", h.Attendance.Today)
			})
		})
	})
}
