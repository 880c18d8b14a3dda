package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stafftrack/hrm-backend/internal"
	employeeDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/employee"
	taskDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/task"
	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
)

type Repository interface {
	ListByManager(managerUserID int64) ([]*employeeDatamodel.Employee, error)
	GetByID(id int64) (*employeeDatamodel.Employee, error)
	GetByUserID(userID int64) (*employeeDatamodel.Employee, error)
	Create(e *employeeDatamodel.Employee) error
	Update(e *employeeDatamodel.Employee) error
	ListUnassignedOperators() ([]*employeeDatamodel.Employee, error)
}

// UserStore is the slice of the user repository the employee service needs.
type UserStore interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
}

// TaskSource feeds the dashboards. ListByCreator drives the manager-level
// totals and charts; ListByAssignee drives the per-employee numbers.
type TaskSource interface {
	ListByAssignee(assigneeID int64) ([]*taskDatamodel.Task, error)
	ListByCreator(creatorID int64) ([]*taskDatamodel.Task, error)
}

type Service struct {
	repo       Repository
	users      UserStore
	tasks      TaskSource
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, users UserStore, tasks TaskSource, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		users:      users,
		tasks:      tasks,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// ProvisionProfile creates the staff profile behind an operator user. It is
// the hook the registration flow calls.
func (s *Service) ProvisionProfile(userID int64, name, roleTitle, department string, managerID *int64) error {
	now := time.Now()
	return s.repo.Create(&employeeDatamodel.Employee{
		UserID:     userID,
		Name:       name,
		RoleTitle:  roleTitle,
		Department: department,
		Status:     "Active",
		ManagerID:  managerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// ListWithTasks returns the caller's employees with their email and assigned
// tasks in display form.
func (s *Service) ListWithTasks(ctx context.Context, managerUserID int64) ([]Employee, error) {
	rows, err := s.repo.ListByManager(managerUserID)
	if err != nil {
		return nil, err
	}

	result := make([]Employee, 0, len(rows))
	for _, e := range rows {
		email, err := s.emailOf(e.UserID)
		if err != nil {
			return nil, err
		}
		tasks, err := s.tasks.ListByAssignee(e.UserID)
		if err != nil {
			return nil, err
		}
		views := make([]TaskView, len(tasks))
		for i, t := range tasks {
			views[i] = taskView(t)
		}
		result = append(result, Employee{
			ID:    e.ID,
			Name:  e.Name,
			Role:  e.RoleTitle,
			Email: email,
			Tasks: views,
		})
	}
	return result, nil
}

// Create makes an operator user plus their profile under the calling
// manager.
func (s *Service) Create(ctx context.Context, managerUserID int64, dto CreateEmployeeDTO) (*CreateEmployeeResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &userDatamodel.User{
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         internal.RoleOperator,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(u); err != nil {
		s.logger.Error("failed to create operator user", "error", err, "email", dto.Email)
		return nil, err
	}

	roleTitle := dto.RoleTitle
	if roleTitle == "" {
		roleTitle = "Operator"
	}
	e := &employeeDatamodel.Employee{
		UserID:     u.ID,
		Name:       dto.Name,
		RoleTitle:  roleTitle,
		Department: dto.Department,
		Status:     "Active",
		ManagerID:  &managerUserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create employee profile", "error", err, "user_id", u.ID)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", e.ID, "manager_id", managerUserID)

	return &CreateEmployeeResponse{
		Employee: detailView(e, u.Email),
		User:     CreatedUser{ID: u.ID, Email: u.Email, Role: u.Role},
	}, nil
}

// Dashboard builds the manager aggregation in one pass over the manager's
// created tasks and staff. Recomputed per request.
func (s *Service) Dashboard(ctx context.Context, managerUserID int64, now time.Time) (*DashboardResponse, error) {
	staff, err := s.repo.ListByManager(managerUserID)
	if err != nil {
		return nil, err
	}

	active := 0
	for _, e := range staff {
		if e.Status == "Active" {
			active++
		}
	}

	created, err := s.tasks.ListByCreator(managerUserID)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, t := range created {
		if t.Status == "DONE" {
			completed++
		}
	}

	resp := &DashboardResponse{
		TotalEmployees:  len(staff),
		ActiveEmployees: active,
		TotalTasks:      len(created),
		CompletedTasks:  completed,
		CompletionRate:  rate(completed, len(created)),
		WeeklyData:      weeklyHours(created, now),
		PerformanceData: completionTrend(created, now),
	}

	resp.TeamOverview = make([]TeamMember, 0, len(staff))
	for _, e := range staff {
		tasks, err := s.tasks.ListByAssignee(e.UserID)
		if err != nil {
			return nil, err
		}
		done := 0
		hours := 0.0
		for _, t := range tasks {
			if t.Status == "DONE" {
				done++
			}
			hours += t.AssignedHours
		}
		resp.TeamOverview = append(resp.TeamOverview, TeamMember{
			ID:             e.ID,
			Name:           e.Name,
			Role:           e.RoleTitle,
			Status:         e.Status,
			TasksCompleted: done,
			HoursLogged:    hours,
			Efficiency:     rate(done, len(tasks)),
		})
	}

	return resp, nil
}

// weeklyHours buckets assigned hours by due date over the last 7 days, the
// current day included.
func weeklyHours(tasks []*taskDatamodel.Task, now time.Time) []WeeklyBucket {
	start := dayStart(now).AddDate(0, 0, -6)
	buckets := make([]WeeklyBucket, 7)
	for i := range buckets {
		day := start.AddDate(0, 0, i)
		hours := 0.0
		for _, t := range tasks {
			if t.DueDate != nil && dayStart(*t.DueDate).Equal(day) {
				hours += t.AssignedHours
			}
		}
		buckets[i] = WeeklyBucket{Day: day.Format("Mon"), Hours: hours}
	}
	return buckets
}

// completionTrend computes a completion rate per week over the last 28 days.
func completionTrend(tasks []*taskDatamodel.Task, now time.Time) []TrendBucket {
	start := dayStart(now).AddDate(0, 0, -28)
	buckets := make([]TrendBucket, 4)
	for w := range buckets {
		weekStart := start.AddDate(0, 0, w*7)
		weekEnd := weekStart.AddDate(0, 0, 7)
		total, done := 0, 0
		for _, t := range tasks {
			if t.DueDate == nil {
				continue
			}
			due := dayStart(*t.DueDate)
			if due.Before(weekStart) || !due.Before(weekEnd) {
				continue
			}
			total++
			if t.Status == "DONE" {
				done++
			}
		}
		buckets[w] = TrendBucket{Week: fmt.Sprintf("Week %d", w+1), Completion: rate(done, total)}
	}
	return buckets
}

// PerformanceList returns per-employee task totals.
func (s *Service) PerformanceList(ctx context.Context, managerUserID int64) ([]PerformanceRow, error) {
	staff, err := s.repo.ListByManager(managerUserID)
	if err != nil {
		return nil, err
	}

	rows := make([]PerformanceRow, 0, len(staff))
	for _, e := range staff {
		email, err := s.emailOf(e.UserID)
		if err != nil {
			return nil, err
		}
		tasks, err := s.tasks.ListByAssignee(e.UserID)
		if err != nil {
			return nil, err
		}
		done := 0
		for _, t := range tasks {
			if t.Status == "DONE" {
				done++
			}
		}
		rows = append(rows, PerformanceRow{
			ID:             e.ID,
			Name:           e.Name,
			RoleTitle:      e.RoleTitle,
			Email:          email,
			Department:     e.Department,
			Status:         e.Status,
			TotalTasks:     len(tasks),
			CompletedTasks: done,
			PendingTasks:   len(tasks) - done,
		})
	}
	return rows, nil
}

// Detail returns one employee with computed performance and their task list.
func (s *Service) Detail(ctx context.Context, employeeID int64) (*DetailResponse, error) {
	e, err := s.repo.GetByID(employeeID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}

	email, err := s.emailOf(e.UserID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByAssignee(e.UserID)
	if err != nil {
		return nil, err
	}

	perf := Performance{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case "DONE":
			perf.Completed++
		case "WORKING":
			perf.Working++
		case "STUCK":
			perf.Stuck++
		}
		perf.TotalHours += t.AssignedHours
	}
	perf.CompletionRate = rate(perf.Completed, perf.TotalTasks)

	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = taskView(t)
	}

	return &DetailResponse{
		Employee:    detailView(e, email),
		Performance: perf,
		Tasks:       views,
	}, nil
}

// NewJoiners lists operators with no manager, newest first.
func (s *Service) NewJoiners(ctx context.Context) ([]NewJoiner, error) {
	rows, err := s.repo.ListUnassignedOperators()
	if err != nil {
		return nil, err
	}
	joiners := make([]NewJoiner, len(rows))
	for i, e := range rows {
		joiners[i] = newJoinerView(e)
	}
	return joiners, nil
}

// Assign moves an operator under a manager and optionally updates the
// profile name and department.
func (s *Service) Assign(ctx context.Context, dto AssignDTO) (*Detail, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	manager, err := s.users.GetByID(dto.ManagerUserID)
	if err != nil {
		return nil, err
	}
	if manager == nil || !internal.IsManagerRole(manager.Role) {
		return nil, ErrManagerNotFound
	}

	e, err := s.repo.GetByID(dto.EmployeeID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	operator, err := s.users.GetByID(e.UserID)
	if err != nil {
		return nil, err
	}
	if operator == nil || operator.Role != internal.RoleOperator {
		return nil, ErrNotOperator
	}

	e.ManagerID = &dto.ManagerUserID
	if dto.Name != "" {
		e.Name = dto.Name
	}
	if dto.Department != "" {
		e.Department = dto.Department
	}
	e.UpdatedAt = time.Now()
	if err := s.repo.Update(e); err != nil {
		return nil, err
	}

	s.logger.Info("employee assigned", "employee_id", e.ID, "manager_user_id", dto.ManagerUserID)

	view := detailView(e, operator.Email)
	return &view, nil
}

// Managers lists manager profiles under the caller with the employees each
// one supervises.
func (s *Service) Managers(ctx context.Context, callerUserID int64) ([]ManagerGroup, error) {
	rows, err := s.repo.ListByManager(callerUserID)
	if err != nil {
		return nil, err
	}

	groups := make([]ManagerGroup, 0, len(rows))
	for _, m := range rows {
		managed, err := s.repo.ListByManager(m.UserID)
		if err != nil {
			return nil, err
		}
		employees := make([]NewJoiner, len(managed))
		for i, e := range managed {
			employees[i] = newJoinerView(e)
		}
		groups = append(groups, ManagerGroup{
			Name:       m.Name,
			RoleTitle:  m.RoleTitle,
			Department: m.Department,
			UserID:     m.UserID,
			Employees:  employees,
		})
	}
	return groups, nil
}

func (s *Service) emailOf(userID int64) (string, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", nil
	}
	return u.Email, nil
}

func newJoinerView(e *employeeDatamodel.Employee) NewJoiner {
	return NewJoiner{
		ID:         e.ID,
		Name:       e.Name,
		RoleTitle:  e.RoleTitle,
		Department: e.Department,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
	}
}

func rate(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(done)/float64(total)*100 + 0.5)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
