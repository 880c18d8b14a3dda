package postgres

import (
	"gorm.io/gorm"

	taskDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/task"
	"github.com/stafftrack/hrm-backend/internal/task"
)

// TaskRepository implements task.Repository using GORM. The partial unique
// index on tasks(assignee_id) WHERE status='WORKING' AND NOT is_deleted backs
// the single-running-task invariant at the storage layer.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Transact(fn func(task.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&TaskRepository{db: tx})
	})
}

func (r *TaskRepository) GetByID(id int64) (*taskDatamodel.Task, error) {
	var t taskDatamodel.Task
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(t *taskDatamodel.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) Update(t *taskDatamodel.Task) error {
	return r.db.Save(t).Error
}

// FindRunningForAssignee returns the assignee's WORKING task other than
// excludeTaskID, or nil when none.
func (r *TaskRepository) FindRunningForAssignee(assigneeID, excludeTaskID int64) (*taskDatamodel.Task, error) {
	var t taskDatamodel.Task
	err := r.db.
		Where("assignee_id = ? AND status = ? AND is_deleted = ? AND id <> ?",
			assigneeID, task.StatusWorking, false, excludeTaskID).
		First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListByAssignee(assigneeID int64) ([]*taskDatamodel.Task, error) {
	var tasks []*taskDatamodel.Task
	err := r.db.
		Where("assignee_id = ? AND is_deleted = ?", assigneeID, false).
		Order("due_date ASC NULLS LAST, created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) ListByCreator(creatorID int64) ([]*taskDatamodel.Task, error) {
	var tasks []*taskDatamodel.Task
	err := r.db.
		Where("created_by_id = ? AND is_deleted = ?", creatorID, false).
		Order("due_date ASC NULLS LAST, created_at ASC").
		Find(&tasks).Error
	return tasks, err
}
