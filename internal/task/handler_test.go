package task_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stafftrack/hrm-backend/internal"
	taskDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/task"
	"github.com/stafftrack/hrm-backend/internal/core/events"
	"github.com/stafftrack/hrm-backend/internal/task"
)

var _ = Describe("Task Handler", func() {
	var (
		repo   *MockRepository
		router *chi.Mux
	)

	operator := &internal.AuthUser{ID: 1, Email: "alice@corp.test", Role: internal.RoleOperator}

	addTask := func(assigneeID int64, title, status string) *taskDatamodel.Task {
		t := &taskDatamodel.Task{
			Title:       title,
			Status:      status,
			Priority:    task.PriorityMedium,
			AssigneeID:  assigneeID,
			CreatedByID: 2,
		}
		Expect(repo.Create(t)).To(Succeed())
		return t
	}

	do := func(method, target, body string, user *internal.AuthUser) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if user != nil {
			req = req.WithContext(internal.ContextWithUser(context.Background(), user))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := task.NewService(repo, MockUserDirectory{}, events.NewEventBus(logger), logger)
		handler := task.NewHandler(service, GinkgoT().TempDir(), "/uploads")

		router = chi.NewRouter()
		router.Post("/tasks", handler.Create)
		router.Get("/tasks/mine", handler.Mine)
		router.Get("/tasks/dashboard", handler.Dashboard)
		router.Patch("/tasks/{id}/status", handler.UpdateStatus)
	})

	Describe("POST /tasks", func() {
		manager := &internal.AuthUser{ID: 2, Email: "boss@corp.test", Role: internal.RoleManager}

		It("responds 404 when the assignee does not exist", func() {
			rec := do(http.MethodPost, "/tasks", `{"title":"report","assignee_id":999}`, manager)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring("assignee not found"))
		})

		It("creates a task for a known assignee", func() {
			rec := do(http.MethodPost, "/tasks", `{"title":"report","assignee_id":1}`, manager)
			Expect(rec.Code).To(Equal(http.StatusCreated))
		})
	})

	Describe("PATCH /tasks/{id}/status", func() {
		It("updates the status", func() {
			t := addTask(operator.ID, "report", task.StatusTodo)

			rec := do(http.MethodPatch, fmt.Sprintf("/tasks/%d/status", t.ID), `{"status":"WORKING"}`, operator)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var updated task.Task
			Expect(json.Unmarshal(rec.Body.Bytes(), &updated)).To(Succeed())
			Expect(updated.Status).To(Equal(task.StatusWorking))
		})

		It("responds 409 with the running task when another is in progress", func() {
			running := addTask(operator.ID, "deploy", task.StatusWorking)
			t := addTask(operator.ID, "report", task.StatusTodo)

			rec := do(http.MethodPatch, fmt.Sprintf("/tasks/%d/status", t.ID), `{"status":"WORKING"}`, operator)
			Expect(rec.Code).To(Equal(http.StatusConflict))

			var conflict task.ConflictResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &conflict)).To(Succeed())
			Expect(conflict.Error).To(Equal("another task is already in progress"))
			Expect(conflict.RunningTask.ID).To(Equal(running.ID))
			Expect(conflict.RunningTask.Title).To(Equal("deploy"))
		})

		It("rejects an invalid status", func() {
			t := addTask(operator.ID, "report", task.StatusTodo)

			rec := do(http.MethodPatch, fmt.Sprintf("/tasks/%d/status", t.ID), `{"status":"PAUSED"}`, operator)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("responds 404 for an unknown task", func() {
			rec := do(http.MethodPatch, "/tasks/999/status", `{"status":"DONE"}`, operator)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("responds 401 without a principal", func() {
			rec := do(http.MethodPatch, "/tasks/1/status", `{"status":"DONE"}`, nil)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("GET /tasks/mine", func() {
		It("lists only the caller's live tasks", func() {
			addTask(operator.ID, "report", task.StatusTodo)
			addTask(99, "other", task.StatusTodo)

			rec := do(http.MethodGet, "/tasks/mine", "", operator)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp task.TaskListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Tasks).To(HaveLen(1))
			Expect(resp.Tasks[0].Title).To(Equal("report"))
		})
	})

	Describe("GET /tasks/dashboard", func() {
		It("returns the caller's status rollup", func() {
			addTask(operator.ID, "a", task.StatusDone)
			addTask(operator.ID, "b", task.StatusTodo)

			rec := do(http.MethodGet, "/tasks/dashboard", "", operator)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var d task.Dashboard
			Expect(json.Unmarshal(rec.Body.Bytes(), &d)).To(Succeed())
			Expect(d.Total).To(Equal(2))
			Expect(d.Done).To(Equal(1))
			Expect(d.CompletionRate).To(Equal(50))
		})
	})
})
