package comment

import (
	"context"
	"log/slog"
	"time"

	"github.com/stafftrack/hrm-backend/internal"
	commentDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/comment"
	taskDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/task"
	"github.com/stafftrack/hrm-backend/internal/core/events"
)

type Repository interface {
	ListByTask(taskID int64) ([]*commentDatamodel.Comment, error)
	Create(c *commentDatamodel.Comment) error
	MarkSeenForSide(taskID int64, managerSide bool) error
}

// TaskDirectory resolves the task a thread hangs off; nil means the task does
// not exist or is deleted.
type TaskDirectory interface {
	GetByID(id int64) (*taskDatamodel.Task, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   Repository
	tasks  TaskDirectory
	bus    Publisher
	logger *slog.Logger
}

func NewService(repo Repository, tasks TaskDirectory, bus Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tasks:  tasks,
		bus:    bus,
		logger: logger,
	}
}

// Thread returns the task's comments oldest first. The caller must be the
// task's assignee, its creator, or hold a manager-side role.
func (s *Service) Thread(ctx context.Context, taskID int64, viewer internal.AuthUser) ([]*Comment, error) {
	if _, err := s.participantTask(taskID, viewer); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListByTask(taskID)
	if err != nil {
		return nil, err
	}
	return FromDataModelSlice(comments), nil
}

// PostComment appends to the thread. The author's own side is marked seen at
// creation; the other side starts unseen.
func (s *Service) PostComment(ctx context.Context, taskID int64, author internal.AuthUser, dto PostCommentDTO) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.participantTask(taskID, author); err != nil {
		return nil, err
	}

	managerSide := isManagerSide(author.Role)
	now := time.Now()
	c := &commentDatamodel.Comment{
		TaskID:         taskID,
		AuthorID:       author.ID,
		Content:        dto.Content,
		SeenByAssignee: !managerSide,
		SeenByManager:  managerSide,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to post comment", "error", err, "task_id", taskID)
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewCommentPostedEvent(c.ID, taskID, author.ID))
	}
	return FromDataModel(c), nil
}

// MarkSeen flips the viewer's side to seen across the thread. Comments the
// viewer's side authored already carry the flag, so a blanket side update is
// equivalent to marking only opposite-authored ones. There is no un-see.
func (s *Service) MarkSeen(ctx context.Context, taskID int64, viewer internal.AuthUser) error {
	if _, err := s.participantTask(taskID, viewer); err != nil {
		return err
	}
	return s.repo.MarkSeenForSide(taskID, isManagerSide(viewer.Role))
}

// isManagerSide maps a role onto one of the two thread sides. Admins read
// and write on the manager side.
func isManagerSide(role string) bool {
	return internal.IsManagerRole(role) || role == internal.RoleAdmin
}

func (s *Service) participantTask(taskID int64, viewer internal.AuthUser) (*taskDatamodel.Task, error) {
	t, err := s.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.IsDeleted {
		return nil, ErrTaskNotFound
	}
	if t.AssigneeID != viewer.ID && t.CreatedByID != viewer.ID &&
		!internal.IsManagerRole(viewer.Role) && viewer.Role != internal.RoleAdmin {
		return nil, ErrNotAllowed
	}
	return t, nil
}
