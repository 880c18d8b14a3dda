package task

import "time"

// Task is a unit of work assigned to a user. One file URL is retained per
// side (manager upload vs operator upload). IsDeleted hides the row from all
// listing queries without removing it.
type Task struct {
	ID              int64      `gorm:"primaryKey"`
	Title           string     `gorm:"column:title;not null"`
	Notes           string     `gorm:"column:notes"`
	Status          string     `gorm:"column:status;default:TODO"`
	Priority        string     `gorm:"column:priority;default:MEDIUM"`
	DueDate         *time.Time `gorm:"column:due_date"`
	AssignedHours   float64    `gorm:"column:assigned_hours"`
	AssigneeID      int64      `gorm:"column:assignee_id;not null"`
	CreatedByID     int64      `gorm:"column:created_by_id;not null"`
	ManagerFileURL  *string    `gorm:"column:manager_file_url"`
	OperatorFileURL *string    `gorm:"column:operator_file_url"`
	IsDeleted       bool       `gorm:"column:is_deleted;default:false"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}
