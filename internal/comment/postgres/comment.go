package postgres

import (
	"gorm.io/gorm"

	"github.com/stafftrack/hrm-backend/internal/comment"
	commentDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/comment"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) comment.Repository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) ListByTask(taskID int64) ([]*commentDatamodel.Comment, error) {
	var comments []*commentDatamodel.Comment
	err := r.db.Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Create(c *commentDatamodel.Comment) error {
	return r.db.Create(c).Error
}

// MarkSeenForSide flips one side's read flag across the thread.
func (r *CommentRepository) MarkSeenForSide(taskID int64, managerSide bool) error {
	column := "seen_by_assignee"
	if managerSide {
		column = "seen_by_manager"
	}
	return r.db.Model(&commentDatamodel.Comment{}).
		Where("task_id = ? AND "+column+" = ?", taskID, false).
		Update(column, true).Error
}
