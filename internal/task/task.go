package task

import (
	"errors"
	"fmt"
	"time"

	taskDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/task"
)

const (
	StatusTodo    = "TODO"
	StatusWorking = "WORKING"
	StatusStuck   = "STUCK"
	StatusDone    = "DONE"

	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusWorking, StatusStuck, StatusDone:
		return true
	}
	return false
}

func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// RunningTaskError reports the single-running-task violation: the assignee
// already has a WORKING task, identified so the caller can prompt "pause
// current task before starting another".
type RunningTaskError struct {
	RunningID    int64
	RunningTitle string
}

func (e *RunningTaskError) Error() string {
	return fmt.Sprintf("another task is already in progress: %q (id %d)", e.RunningTitle, e.RunningID)
}

// Task is the API view.
type Task struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	AssignedHours   float64    `json:"assigned_hours"`
	AssigneeID      int64      `json:"assignee_id"`
	CreatedByID     int64      `json:"created_by_id"`
	ManagerFileURL  *string    `json:"fileUrl_manager,omitempty"`
	OperatorFileURL *string    `json:"fileUrl_operator,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func FromDataModel(t *taskDatamodel.Task) *Task {
	return &Task{
		ID:              t.ID,
		Title:           t.Title,
		Notes:           t.Notes,
		Status:          t.Status,
		Priority:        t.Priority,
		DueDate:         t.DueDate,
		AssignedHours:   t.AssignedHours,
		AssigneeID:      t.AssigneeID,
		CreatedByID:     t.CreatedByID,
		ManagerFileURL:  t.ManagerFileURL,
		OperatorFileURL: t.OperatorFileURL,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func FromDataModelSlice(tasks []*taskDatamodel.Task) []*Task {
	result := make([]*Task, len(tasks))
	for i, t := range tasks {
		result[i] = FromDataModel(t)
	}
	return result
}
