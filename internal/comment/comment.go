package comment

import (
	"errors"
	"time"

	commentDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/comment"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotAllowed   = errors.New("not a participant of this task")
)

// Comment is the API view of a thread message. The two seen flags track read
// state per role side, not per user.
type Comment struct {
	ID             int64     `json:"id"`
	TaskID         int64     `json:"task_id"`
	AuthorID       int64     `json:"author_id"`
	Content        string    `json:"content"`
	SeenByAssignee bool      `json:"seen_by_assignee"`
	SeenByManager  bool      `json:"seen_by_manager"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromDataModel(c *commentDatamodel.Comment) *Comment {
	return &Comment{
		ID:             c.ID,
		TaskID:         c.TaskID,
		AuthorID:       c.AuthorID,
		Content:        c.Content,
		SeenByAssignee: c.SeenByAssignee,
		SeenByManager:  c.SeenByManager,
		CreatedAt:      c.CreatedAt,
	}
}

func FromDataModelSlice(comments []*commentDatamodel.Comment) []*Comment {
	result := make([]*Comment, len(comments))
	for i, c := range comments {
		result[i] = FromDataModel(c)
	}
	return result
}

// PostCommentDTO is the request payload for appending to a thread.
type PostCommentDTO struct {
	Content string `json:"content"`
}

func (dto PostCommentDTO) Validate() error {
	if dto.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

type ThreadResponse struct {
	Comments []*Comment `json:"comments"`
}
