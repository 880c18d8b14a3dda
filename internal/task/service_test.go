package task_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	taskDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/task"
	"github.com/stafftrack/hrm-backend/internal/core/events"
	"github.com/stafftrack/hrm-backend/internal/task"
)

func TestTaskService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task Service Suite")
}

// MockRepository implements task.Repository in memory.
type MockRepository struct {
	tasks  map[int64]*taskDatamodel.Task
	nextID int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{tasks: make(map[int64]*taskDatamodel.Task), nextID: 1}
}

func (m *MockRepository) Transact(fn func(task.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) GetByID(id int64) (*taskDatamodel.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (m *MockRepository) Create(t *taskDatamodel.Task) error {
	t.ID = m.nextID
	m.nextID++
	m.tasks[t.ID] = t
	return nil
}

func (m *MockRepository) Update(t *taskDatamodel.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *MockRepository) FindRunningForAssignee(assigneeID, excludeTaskID int64) (*taskDatamodel.Task, error) {
	for _, t := range m.tasks {
		if t.AssigneeID == assigneeID && t.Status == task.StatusWorking && !t.IsDeleted && t.ID != excludeTaskID {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) ListByAssignee(assigneeID int64) ([]*taskDatamodel.Task, error) {
	var result []*taskDatamodel.Task
	for _, t := range m.tasks {
		if t.AssigneeID == assigneeID && !t.IsDeleted {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MockRepository) ListByCreator(creatorID int64) ([]*taskDatamodel.Task, error) {
	var result []*taskDatamodel.Task
	for _, t := range m.tasks {
		if t.CreatedByID == creatorID && !t.IsDeleted {
			result = append(result, t)
		}
	}
	return result, nil
}

// MockUserDirectory marks every id below 100 as existing.
type MockUserDirectory struct{}

func (MockUserDirectory) Exists(userID int64) (bool, error) {
	return userID < 100, nil
}

var _ = Describe("Task Service", func() {
	var (
		repo    *MockRepository
		service *task.Service
		ctx     context.Context
	)

	addTask := func(assigneeID int64, status string) *taskDatamodel.Task {
		t := &taskDatamodel.Task{
			Title:       "task for " + status,
			Status:      status,
			Priority:    task.PriorityMedium,
			AssigneeID:  assigneeID,
			CreatedByID: 2,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		Expect(repo.Create(t)).To(Succeed())
		return t
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = task.NewService(repo, MockUserDirectory{}, events.NewEventBus(logger), logger)
		ctx = context.Background()
	})

	Describe("CreateTask", func() {
		It("creates a TODO task with default priority", func() {
			created, err := service.CreateTask(ctx, 2, task.CreateTaskDTO{
				Title:      "write report",
				AssigneeID: 1,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(task.StatusTodo))
			Expect(created.Priority).To(Equal(task.PriorityMedium))
			Expect(created.CreatedByID).To(Equal(int64(2)))
		})

		It("rejects a missing assignee", func() {
			_, err := service.CreateTask(ctx, 2, task.CreateTaskDTO{
				Title:      "write report",
				AssigneeID: 999,
			})
			Expect(err).To(MatchError(task.ErrAssigneeNotFound))
		})

		It("rejects an invalid priority", func() {
			_, err := service.CreateTask(ctx, 2, task.CreateTaskDTO{
				Title:      "write report",
				AssigneeID: 1,
				Priority:   "URGENT",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetStatus", func() {
		It("moves a task into WORKING when nothing else is running", func() {
			t := addTask(1, task.StatusTodo)

			updated, err := service.SetStatus(ctx, t.ID, task.StatusWorking, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(task.StatusWorking))
		})

		It("rejects WORKING while another task of the assignee runs", func() {
			running := addTask(1, task.StatusWorking)
			t := addTask(1, task.StatusTodo)

			_, err := service.SetStatus(ctx, t.ID, task.StatusWorking, 1)

			var conflict *task.RunningTaskError
			Expect(err).To(BeAssignableToTypeOf(conflict))
			conflict = err.(*task.RunningTaskError)
			Expect(conflict.RunningID).To(Equal(running.ID))
			Expect(conflict.RunningTitle).To(Equal(running.Title))
		})

		It("allows WORKING when the other running task belongs to someone else", func() {
			addTask(7, task.StatusWorking)
			t := addTask(1, task.StatusTodo)

			_, err := service.SetStatus(ctx, t.ID, task.StatusWorking, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("ignores deleted tasks when checking for a running one", func() {
			running := addTask(1, task.StatusWorking)
			running.IsDeleted = true
			Expect(repo.Update(running)).To(Succeed())
			t := addTask(1, task.StatusTodo)

			_, err := service.SetStatus(ctx, t.ID, task.StatusWorking, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("does not guard transitions out of WORKING", func() {
			t := addTask(1, task.StatusWorking)
			other := addTask(1, task.StatusStuck)

			_, err := service.SetStatus(ctx, other.ID, task.StatusDone, 1)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SetStatus(ctx, t.ID, task.StatusStuck, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns not found for a deleted task", func() {
			t := addTask(1, task.StatusTodo)
			Expect(service.SoftDelete(ctx, t.ID)).To(Succeed())

			_, err := service.SetStatus(ctx, t.ID, task.StatusDone, 1)
			Expect(err).To(MatchError(task.ErrTaskNotFound))
		})
	})

	Describe("SoftDelete", func() {
		It("hides the task from listings", func() {
			t := addTask(1, task.StatusTodo)
			Expect(service.SoftDelete(ctx, t.ID)).To(Succeed())

			tasks, err := service.TasksFor(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(BeEmpty())

			stored, _ := repo.GetByID(t.ID)
			Expect(stored).NotTo(BeNil())
			Expect(stored.IsDeleted).To(BeTrue())
		})
	})

	Describe("Transfer", func() {
		It("reassigns to an existing user", func() {
			t := addTask(1, task.StatusTodo)

			updated, err := service.Transfer(ctx, t.ID, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AssigneeID).To(Equal(int64(3)))
		})

		It("rejects a missing assignee", func() {
			t := addTask(1, task.StatusTodo)

			_, err := service.Transfer(ctx, t.ID, 999)
			Expect(err).To(MatchError(task.ErrAssigneeNotFound))
		})
	})

	Describe("AttachFile", func() {
		It("stores the URL on the side matching the caller", func() {
			t := addTask(1, task.StatusTodo)

			updated, err := service.AttachFile(ctx, t.ID, true, "/uploads/a.pdf")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ManagerFileURL).To(HaveValue(Equal("/uploads/a.pdf")))
			Expect(updated.OperatorFileURL).To(BeNil())

			updated, err = service.AttachFile(ctx, t.ID, false, "/uploads/b.pdf")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.OperatorFileURL).To(HaveValue(Equal("/uploads/b.pdf")))
		})
	})

	Describe("DashboardFor", func() {
		It("counts statuses and computes the completion rate", func() {
			addTask(1, task.StatusTodo)
			addTask(1, task.StatusWorking)
			addTask(1, task.StatusDone)
			addTask(1, task.StatusDone)

			d, err := service.DashboardFor(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Total).To(Equal(4))
			Expect(d.Todo).To(Equal(1))
			Expect(d.Working).To(Equal(1))
			Expect(d.Done).To(Equal(2))
			Expect(d.CompletionRate).To(Equal(50))
		})

		It("reports zero completion for an empty set", func() {
			d, err := service.DashboardFor(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Total).To(Equal(0))
			Expect(d.CompletionRate).To(Equal(0))
		})
	})
})
