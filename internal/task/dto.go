package task

import (
	"errors"
	"time"
)

// CreateTaskDTO is the request payload for creating a task.
type CreateTaskDTO struct {
	Title         string     `json:"title"`
	Notes         string     `json:"notes,omitempty"`
	Priority      string     `json:"priority,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	AssignedHours float64    `json:"assigned_hours,omitempty"`
	AssigneeID    int64      `json:"assignee_id"`
}

func (dto CreateTaskDTO) Validate() error {
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.AssigneeID == 0 {
		return errors.New("assignee_id is required")
	}
	if dto.Priority != "" && !IsValidPriority(dto.Priority) {
		return errors.New("priority must be HIGH, MEDIUM or LOW")
	}
	if dto.AssignedHours < 0 {
		return errors.New("assigned_hours cannot be negative")
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if dto.Status == "" {
		return errors.New("status is required")
	}
	if !IsValidStatus(dto.Status) {
		return errors.New("status must be TODO, WORKING, STUCK or DONE")
	}
	return nil
}

type UpdatePriorityDTO struct {
	Priority string `json:"priority"`
}

func (dto UpdatePriorityDTO) Validate() error {
	if dto.Priority == "" {
		return errors.New("priority is required")
	}
	if !IsValidPriority(dto.Priority) {
		return errors.New("priority must be HIGH, MEDIUM or LOW")
	}
	return nil
}

type TransferDTO struct {
	AssigneeID int64 `json:"assignee_id"`
}

func (dto TransferDTO) Validate() error {
	if dto.AssigneeID == 0 {
		return errors.New("assignee_id is required")
	}
	return nil
}

// RunningTaskRef identifies the task blocking a WORKING transition.
type RunningTaskRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ConflictResponse is the 409 payload for the single-running-task rule.
type ConflictResponse struct {
	Error       string         `json:"error"`
	RunningTask RunningTaskRef `json:"running_task"`
}

type TaskListResponse struct {
	Tasks []*Task `json:"tasks"`
}

type UploadResponse struct {
	FileURL string `json:"fileUrl"`
}

// Dashboard is the per-user status rollup.
type Dashboard struct {
	Total          int `json:"total"`
	Todo           int `json:"todo"`
	Working        int `json:"working"`
	Stuck          int `json:"stuck"`
	Done           int `json:"done"`
	CompletionRate int `json:"completion_rate"`
}
