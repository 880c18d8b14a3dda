package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTaskStatusChanged = "task.status_changed"
	EventCommentPosted     = "comment.posted"
	EventSessionClosed     = "attendance.session_closed"
)

// NewTaskStatusChangedEvent is published after a successful task status
// transition.
func NewTaskStatusChangedEvent(taskID, assigneeID int64, oldStatus, newStatus string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTaskStatusChanged,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"task_id":     taskID,
			"assignee_id": assigneeID,
			"old_status":  oldStatus,
			"new_status":  newStatus,
		},
	}
}

// NewCommentPostedEvent is published when a comment lands on a task thread.
func NewCommentPostedEvent(commentID, taskID, authorID int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventCommentPosted,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"comment_id": commentID,
			"task_id":    taskID,
			"author_id":  authorID,
		},
	}
}

// NewSessionClosedEvent is published when a logout closes an attendance
// session for the day.
func NewSessionClosedEvent(userID int64, workDate time.Time, workedMinutes, breakMinutes int) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventSessionClosed,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":        userID,
			"work_date":      workDate.Format("2006-01-02"),
			"worked_minutes": workedMinutes,
			"break_minutes":  breakMinutes,
		},
	}
}
