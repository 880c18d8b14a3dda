package employee

import (
	"errors"
	"time"

	employeeDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/employee"
	taskDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/task"
)

var (
	ErrNotFound        = errors.New("employee not found")
	ErrManagerNotFound = errors.New("target manager not found")
	ErrNotOperator     = errors.New("employee is not an operator")
	ErrEmailTaken      = errors.New("email already registered")
)

// TaskView is the task shape embedded in employee listings. DONE is rendered
// as "Done" and the due date as YYYY-MM-DD, matching what the frontend
// renders verbatim.
type TaskView struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Status          string  `json:"status"`
	Priority        string  `json:"priority"`
	ManagerFileURL  *string `json:"fileUrl_manager"`
	OperatorFileURL *string `json:"fileUrl_operator"`
	DueDate         *string `json:"dueDate"`
}

func taskView(t *taskDatamodel.Task) TaskView {
	return TaskView{
		ID:              t.ID,
		Title:           t.Title,
		Status:          displayStatus(t.Status),
		Priority:        t.Priority,
		ManagerFileURL:  t.ManagerFileURL,
		OperatorFileURL: t.OperatorFileURL,
		DueDate:         formatDueDate(t.DueDate),
	}
}

func displayStatus(status string) string {
	if status == "DONE" {
		return "Done"
	}
	return status
}

func formatDueDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format("2006-01-02")
	return &s
}

// Employee is the profile view with the linked user's email and task list.
type Employee struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Role  string     `json:"role"`
	Email string     `json:"email"`
	Tasks []TaskView `json:"tasks"`
}

// Detail is the profile block of the single-employee endpoints.
type Detail struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	RoleTitle  string `json:"roleTitle"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Status     string `json:"status"`
}

func detailView(e *employeeDatamodel.Employee, email string) Detail {
	return Detail{
		ID:         e.ID,
		Name:       e.Name,
		RoleTitle:  e.RoleTitle,
		Department: e.Department,
		Email:      email,
		Status:     e.Status,
	}
}
