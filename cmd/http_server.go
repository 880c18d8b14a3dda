package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stafftrack/hrm-backend/internal"
	"github.com/stafftrack/hrm-backend/internal/attendance"
	attendancePostgres "github.com/stafftrack/hrm-backend/internal/attendance/postgres"
	"github.com/stafftrack/hrm-backend/internal/auth"
	authPostgres "github.com/stafftrack/hrm-backend/internal/auth/postgres"
	"github.com/stafftrack/hrm-backend/internal/comment"
	commentPostgres "github.com/stafftrack/hrm-backend/internal/comment/postgres"
	"github.com/stafftrack/hrm-backend/internal/core/events"
	"github.com/stafftrack/hrm-backend/internal/employee"
	employeePostgres "github.com/stafftrack/hrm-backend/internal/employee/postgres"
	"github.com/stafftrack/hrm-backend/internal/task"
	taskPostgres "github.com/stafftrack/hrm-backend/internal/task/postgres"
	"github.com/stafftrack/hrm-backend/internal/transport/rest"
	"github.com/stafftrack/hrm-backend/internal/transport/swagger"
	"github.com/stafftrack/hrm-backend/internal/user"
	userPostgres "github.com/stafftrack/hrm-backend/internal/user/postgres"
	"github.com/stafftrack/hrm-backend/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		deps.Logger.Warn("openapi spec validation failed", "error", err)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	handlers := buildHandlers(config, gormDB, lg)

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

// buildHandlers wires repositories, services and handlers. The auth service
// talks to attendance (session on login/logout) and employee (profile on
// operator registration) through narrow interfaces.
func buildHandlers(config *internal.Config, gormDB *gorm.DB, lg *slog.Logger) rest.Handlers {
	bus := events.NewEventBus(lg)
	registerEventHandlers(bus, lg)

	authRepo := authPostgres.NewRepository(gormDB)
	attendanceRepo := attendancePostgres.NewAttendanceRepository(gormDB)
	taskRepo := taskPostgres.NewTaskRepository(gormDB)
	commentRepo := commentPostgres.NewCommentRepository(gormDB)
	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)

	attendanceService := attendance.NewService(attendanceRepo, bus, lg)
	employeeService := employee.NewService(employeeRepo, authRepo, taskRepo, config.Security.BCryptCost, lg)

	var verifier auth.CredentialVerifier
	if config.Keycloak.Enabled {
		verifier = auth.NewKeycloakVerifier(config.Keycloak, authRepo, lg)
	} else {
		verifier = auth.NewLocalVerifier(authRepo)
	}

	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(authRepo, employeeService, attendanceService, verifier, tokens, config.Security.BCryptCost, lg)

	taskService := task.NewService(taskRepo, &userExistence{authRepo}, bus, lg)
	commentService := comment.NewService(commentRepo, taskRepo, bus, lg)
	userService := user.NewService(userRepo, lg)

	return rest.Handlers{
		Auth:       auth.NewHandler(authService),
		Roles:      auth.NewRoleAuthorization(lg),
		User:       user.NewHandler(userService),
		Employee:   employee.NewHandler(employeeService),
		Task:       task.NewHandler(taskService, config.Upload.Dir, config.Upload.BaseURL),
		Comment:    comment.NewHandler(commentService),
		Attendance: attendance.NewHandler(attendanceService),
	}
}

func registerEventHandlers(bus *events.EventBus, lg *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		lg.Info("domain event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	}

	bus.Subscribe(events.EventTaskStatusChanged, audit)
	bus.Subscribe(events.EventCommentPosted, audit)
	bus.Subscribe(events.EventSessionClosed, audit)
}

// userExistence adapts the auth user repository to the assignee checks the
// task service performs.
type userExistence struct {
	users auth.UserRepository
}

func (u *userExistence) Exists(userID int64) (bool, error) {
	found, err := u.users.GetByID(userID)
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

// initDB opens the pgx-backed connection pool and verifies it.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
