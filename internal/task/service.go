package task

import (
	"context"
	"log/slog"
	"math"
	"time"

	taskDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/task"
	"github.com/stafftrack/hrm-backend/internal/core/events"
)

// Repository is the data access for tasks. Transact scopes the
// single-running-task check-and-set to one transaction; the partial unique
// index on tasks(assignee_id) WHERE status='WORKING' is the storage-level
// backstop.
type Repository interface {
	Transact(fn func(Repository) error) error
	GetByID(id int64) (*taskDatamodel.Task, error)
	Create(t *taskDatamodel.Task) error
	Update(t *taskDatamodel.Task) error
	FindRunningForAssignee(assigneeID, excludeTaskID int64) (*taskDatamodel.Task, error)
	ListByAssignee(assigneeID int64) ([]*taskDatamodel.Task, error)
	ListByCreator(creatorID int64) ([]*taskDatamodel.Task, error)
}

// UserDirectory answers existence checks for assignees.
type UserDirectory interface {
	Exists(userID int64) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   Repository
	users  UserDirectory
	bus    Publisher
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, bus Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) CreateTask(ctx context.Context, createdByID int64, dto CreateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(dto.AssigneeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAssigneeNotFound
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now()
	t := &taskDatamodel.Task{
		Title:         dto.Title,
		Notes:         dto.Notes,
		Status:        StatusTodo,
		Priority:      priority,
		DueDate:       dto.DueDate,
		AssignedHours: dto.AssignedHours,
		AssigneeID:    dto.AssigneeID,
		CreatedByID:   createdByID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create task", "error", err, "assignee_id", dto.AssigneeID)
		return nil, err
	}

	s.logger.Info("task created", "task_id", t.ID, "assignee_id", t.AssigneeID, "created_by", createdByID)
	return FromDataModel(t), nil
}

// SetStatus transitions a task. Entry into WORKING is the only guarded edge:
// it fails with RunningTaskError while another non-deleted task of the same
// assignee is WORKING. Every other transition is unconditional.
func (s *Service) SetStatus(ctx context.Context, taskID int64, newStatus string, actorID int64) (*Task, error) {
	if !IsValidStatus(newStatus) {
		return nil, UpdateStatusDTO{Status: newStatus}.Validate()
	}

	var updated *taskDatamodel.Task
	var oldStatus string

	err := s.repo.Transact(func(tx Repository) error {
		t, err := tx.GetByID(taskID)
		if err != nil {
			return err
		}
		if t == nil || t.IsDeleted {
			return ErrTaskNotFound
		}

		if newStatus == StatusWorking {
			running, err := tx.FindRunningForAssignee(t.AssigneeID, t.ID)
			if err != nil {
				return err
			}
			if running != nil {
				return &RunningTaskError{RunningID: running.ID, RunningTitle: running.Title}
			}
		}

		oldStatus = t.Status
		t.Status = newStatus
		t.UpdatedAt = time.Now()
		if err := tx.Update(t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewTaskStatusChangedEvent(updated.ID, updated.AssigneeID, oldStatus, newStatus))
	}
	s.logger.Info("task status changed",
		"task_id", updated.ID,
		"old_status", oldStatus,
		"new_status", newStatus,
		"actor_id", actorID)

	return FromDataModel(updated), nil
}

// SetPriority is an unconditional field update.
func (s *Service) SetPriority(ctx context.Context, taskID int64, priority string) (*Task, error) {
	if !IsValidPriority(priority) {
		return nil, UpdatePriorityDTO{Priority: priority}.Validate()
	}

	t, err := s.loadLive(taskID)
	if err != nil {
		return nil, err
	}

	t.Priority = priority
	t.UpdatedAt = time.Now()
	if err := s.repo.Update(t); err != nil {
		return nil, err
	}
	return FromDataModel(t), nil
}

// Transfer reassigns the task; no business rule gates it beyond the
// assignee existing.
func (s *Service) Transfer(ctx context.Context, taskID, newAssigneeID int64) (*Task, error) {
	exists, err := s.users.Exists(newAssigneeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAssigneeNotFound
	}

	t, err := s.loadLive(taskID)
	if err != nil {
		return nil, err
	}

	t.AssigneeID = newAssigneeID
	t.UpdatedAt = time.Now()
	if err := s.repo.Update(t); err != nil {
		return nil, err
	}

	s.logger.Info("task transferred", "task_id", taskID, "assignee_id", newAssigneeID)
	return FromDataModel(t), nil
}

// SoftDelete hides the task from listings without removing the row.
func (s *Service) SoftDelete(ctx context.Context, taskID int64) error {
	t, err := s.loadLive(taskID)
	if err != nil {
		return err
	}

	t.IsDeleted = true
	t.UpdatedAt = time.Now()
	return s.repo.Update(t)
}

// AttachFile records an uploaded file URL on the side matching the
// uploader's role; one URL is retained per side.
func (s *Service) AttachFile(ctx context.Context, taskID int64, managerSide bool, fileURL string) (*Task, error) {
	t, err := s.loadLive(taskID)
	if err != nil {
		return nil, err
	}

	if managerSide {
		t.ManagerFileURL = &fileURL
	} else {
		t.OperatorFileURL = &fileURL
	}
	t.UpdatedAt = time.Now()
	if err := s.repo.Update(t); err != nil {
		return nil, err
	}
	return FromDataModel(t), nil
}

func (s *Service) GetTask(ctx context.Context, taskID int64) (*Task, error) {
	t, err := s.loadLive(taskID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(t), nil
}

// TasksFor lists a user's non-deleted tasks ordered by due date.
func (s *Service) TasksFor(ctx context.Context, userID int64) ([]*Task, error) {
	tasks, err := s.repo.ListByAssignee(userID)
	if err != nil {
		return nil, err
	}
	return FromDataModelSlice(tasks), nil
}

// DashboardFor rolls up the user's task statuses. Recomputed per request;
// nothing is cached.
func (s *Service) DashboardFor(ctx context.Context, userID int64) (*Dashboard, error) {
	tasks, err := s.repo.ListByAssignee(userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusTodo:
			d.Todo++
		case StatusWorking:
			d.Working++
		case StatusStuck:
			d.Stuck++
		case StatusDone:
			d.Done++
		}
	}
	d.CompletionRate = CompletionRate(d.Done, d.Total)
	return d, nil
}

// CompletionRate is round(100*completed/total), 0 for an empty set.
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func (s *Service) loadLive(taskID int64) (*taskDatamodel.Task, error) {
	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.IsDeleted {
		return nil, ErrTaskNotFound
	}
	return t, nil
}
