package comment

import "time"

// Comment is a message on a task thread with two independent read flags, one
// per role side.
type Comment struct {
	ID             int64     `gorm:"primaryKey"`
	TaskID         int64     `gorm:"column:task_id;index;not null"`
	AuthorID       int64     `gorm:"column:author_id;not null"`
	Content        string    `gorm:"column:content;not null"`
	SeenByAssignee bool      `gorm:"column:seen_by_assignee;default:false"`
	SeenByManager  bool      `gorm:"column:seen_by_manager;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}
