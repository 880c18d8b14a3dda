package employee

import (
	"errors"
	"time"
)

// CreateEmployeeDTO creates an operator user plus their profile under the
// calling manager.
type CreateEmployeeDTO struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	RoleTitle  string `json:"roleTitle,omitempty"`
	Department string `json:"department,omitempty"`
}

func (dto CreateEmployeeDTO) Validate() error {
	if dto.Email == "" || dto.Password == "" || dto.Name == "" {
		return errors.New("email, password and name are required")
	}
	return nil
}

type CreatedUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CreateEmployeeResponse struct {
	Employee Detail      `json:"employee"`
	User     CreatedUser `json:"user"`
}

type ListResponse struct {
	Employees []Employee `json:"employees"`
}

// WeeklyBucket is one day of the assigned-hours chart.
type WeeklyBucket struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

// TrendBucket is one week of the completion-rate trend.
type TrendBucket struct {
	Week       string `json:"week"`
	Completion int    `json:"completion"`
}

// TeamMember is one row of the team overview table.
type TeamMember struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	Status         string  `json:"status"`
	TasksCompleted int     `json:"tasksCompleted"`
	HoursLogged    float64 `json:"hoursLogged"`
	Efficiency     int     `json:"efficiency"`
}

// DashboardResponse is the manager dashboard payload. Task totals count
// tasks the manager created; the team overview counts tasks assigned to each
// employee.
type DashboardResponse struct {
	TotalEmployees  int            `json:"totalEmployees"`
	ActiveEmployees int            `json:"activeEmployees"`
	TotalTasks      int            `json:"totalTasks"`
	CompletedTasks  int            `json:"completedTasks"`
	CompletionRate  int            `json:"completionRate"`
	WeeklyData      []WeeklyBucket `json:"weeklyData"`
	PerformanceData []TrendBucket  `json:"performanceData"`
	TeamOverview    []TeamMember   `json:"teamOverview"`
}

// PerformanceRow is one employee in the performance listing.
type PerformanceRow struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	RoleTitle      string `json:"roleTitle"`
	Email          string `json:"email"`
	Department     string `json:"department"`
	Status         string `json:"status"`
	TotalTasks     int    `json:"totalTasks"`
	CompletedTasks int    `json:"completedTasks"`
	PendingTasks   int    `json:"pendingTasks"`
}

type PerformanceListResponse struct {
	Employees []PerformanceRow `json:"employees"`
}

// Performance is the computed analytics block of the detail endpoints.
type Performance struct {
	TotalTasks     int     `json:"totalTasks"`
	Completed      int     `json:"completed"`
	Working        int     `json:"working"`
	Stuck          int     `json:"stuck"`
	CompletionRate int     `json:"completionRate"`
	TotalHours     float64 `json:"totalHours"`
}

type DetailResponse struct {
	Employee    Detail      `json:"employee"`
	Performance Performance `json:"performance"`
	Tasks       []TaskView  `json:"tasks"`
}

// NewJoiner is an operator profile not yet assigned to a manager.
type NewJoiner struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	RoleTitle  string    `json:"roleTitle"`
	Department string    `json:"department"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NewJoinersResponse struct {
	NewJoiners []NewJoiner `json:"newJoiners"`
}

// AssignDTO moves an operator under a manager, optionally correcting the
// profile name and department at the same time.
type AssignDTO struct {
	EmployeeID    int64  `json:"employeeId"`
	ManagerUserID int64  `json:"managerUserId"`
	Name          string `json:"name,omitempty"`
	Department    string `json:"department,omitempty"`
}

func (dto AssignDTO) Validate() error {
	if dto.EmployeeID == 0 || dto.ManagerUserID == 0 {
		return errors.New("employeeId and managerUserId are required")
	}
	return nil
}

type AssignResponse struct {
	Message  string `json:"message"`
	Employee Detail `json:"employee"`
}

// ManagerGroup is one manager profile together with the employees that
// manager supervises.
type ManagerGroup struct {
	Name       string      `json:"name"`
	RoleTitle  string      `json:"roleTitle"`
	Department string      `json:"department"`
	UserID     int64       `json:"userId"`
	Employees  []NewJoiner `json:"employees"`
}

type ManagersResponse struct {
	Managers []ManagerGroup `json:"managers"`
}
