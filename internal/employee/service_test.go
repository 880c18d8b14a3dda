package employee_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stafftrack/hrm-backend/internal"
	employeeDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/employee"
	taskDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/task"
	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
	"github.com/stafftrack/hrm-backend/internal/employee"
)

func TestEmployeeService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Service Suite")
}

// MockRepository implements employee.Repository in memory.
type MockRepository struct {
	employees map[int64]*employeeDatamodel.Employee
	nextID    int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{employees: make(map[int64]*employeeDatamodel.Employee), nextID: 1}
}

func (m *MockRepository) ListByManager(managerUserID int64) ([]*employeeDatamodel.Employee, error) {
	var result []*employeeDatamodel.Employee
	for id := int64(1); id < m.nextID; id++ {
		e, ok := m.employees[id]
		if ok && e.ManagerID != nil && *e.ManagerID == managerUserID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockRepository) GetByID(id int64) (*employeeDatamodel.Employee, error) {
	return m.employees[id], nil
}

func (m *MockRepository) GetByUserID(userID int64) (*employeeDatamodel.Employee, error) {
	for _, e := range m.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(e *employeeDatamodel.Employee) error {
	e.ID = m.nextID
	m.nextID++
	m.employees[e.ID] = e
	return nil
}

func (m *MockRepository) Update(e *employeeDatamodel.Employee) error {
	m.employees[e.ID] = e
	return nil
}

func (m *MockRepository) ListUnassignedOperators() ([]*employeeDatamodel.Employee, error) {
	var result []*employeeDatamodel.Employee
	for id := m.nextID - 1; id >= 1; id-- {
		e, ok := m.employees[id]
		if ok && e.ManagerID == nil {
			result = append(result, e)
		}
	}
	return result, nil
}

// MockUserStore implements employee.UserStore in memory.
type MockUserStore struct {
	users  map[int64]*userDatamodel.User
	nextID int64
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[int64]*userDatamodel.User), nextID: 1}
}

func (m *MockUserStore) GetByEmail(email string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserStore) GetByID(id int64) (*userDatamodel.User, error) {
	return m.users[id], nil
}

func (m *MockUserStore) Create(u *userDatamodel.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

// MockTaskSource serves fixed task lists keyed by user id.
type MockTaskSource struct {
	byAssignee map[int64][]*taskDatamodel.Task
	byCreator  map[int64][]*taskDatamodel.Task
}

func NewMockTaskSource() *MockTaskSource {
	return &MockTaskSource{
		byAssignee: make(map[int64][]*taskDatamodel.Task),
		byCreator:  make(map[int64][]*taskDatamodel.Task),
	}
}

func (m *MockTaskSource) ListByAssignee(assigneeID int64) ([]*taskDatamodel.Task, error) {
	return m.byAssignee[assigneeID], nil
}

func (m *MockTaskSource) ListByCreator(creatorID int64) ([]*taskDatamodel.Task, error) {
	return m.byCreator[creatorID], nil
}

var _ = Describe("Employee Service", func() {
	var (
		repo    *MockRepository
		users   *MockUserStore
		tasks   *MockTaskSource
		service *employee.Service
		ctx     context.Context
		now     time.Time
	)

	const managerUserID = int64(100)

	addUser := func(email, role string) *userDatamodel.User {
		u := &userDatamodel.User{Email: email, Role: role, Enabled: true}
		Expect(users.Create(u)).To(Succeed())
		return u
	}

	addEmployee := func(userID int64, name string, managerID *int64) *employeeDatamodel.Employee {
		e := &employeeDatamodel.Employee{
			UserID:    userID,
			Name:      name,
			RoleTitle: "Operator",
			Status:    "Active",
			ManagerID: managerID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		Expect(repo.Create(e)).To(Succeed())
		return e
	}

	taskDue := func(status string, hours float64, due time.Time) *taskDatamodel.Task {
		d := due
		return &taskDatamodel.Task{Status: status, AssignedHours: hours, DueDate: &d}
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		users = NewMockUserStore()
		tasks = NewMockTaskSource()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = employee.NewService(repo, users, tasks, 4, logger)
		ctx = context.Background()
		now = time.Date(2026, time.March, 5, 12, 0, 0, 0, time.Local)

		users.users[managerUserID] = &userDatamodel.User{
			ID:      managerUserID,
			Email:   "manager@corp.test",
			Role:    internal.RoleManager,
			Enabled: true,
		}
	})

	Describe("Create", func() {
		It("creates an operator user plus a profile under the manager", func() {
			resp, err := service.Create(ctx, managerUserID, employee.CreateEmployeeDTO{
				Email:    "alice@corp.test",
				Password: "s3cret!pass",
				Name:     "Alice",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.User.Role).To(Equal(internal.RoleOperator))
			Expect(resp.Employee.RoleTitle).To(Equal("Operator"))

			stored, _ := repo.GetByUserID(resp.User.ID)
			Expect(stored).NotTo(BeNil())
			Expect(stored.ManagerID).To(HaveValue(Equal(managerUserID)))
		})

		It("rejects a taken email", func() {
			addUser("alice@corp.test", internal.RoleOperator)

			_, err := service.Create(ctx, managerUserID, employee.CreateEmployeeDTO{
				Email:    "alice@corp.test",
				Password: "s3cret!pass",
				Name:     "Alice",
			})
			Expect(err).To(MatchError(employee.ErrEmailTaken))
		})
	})

	Describe("Dashboard", func() {
		It("reports zero rates with no staff and no tasks", func() {
			resp, err := service.Dashboard(ctx, managerUserID, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.TotalEmployees).To(Equal(0))
			Expect(resp.CompletionRate).To(Equal(0))
			Expect(resp.WeeklyData).To(HaveLen(7))
			Expect(resp.PerformanceData).To(HaveLen(4))
			Expect(resp.TeamOverview).To(BeEmpty())
		})

		It("aggregates totals over the manager's created tasks", func() {
			u := addUser("alice@corp.test", internal.RoleOperator)
			mid := managerUserID
			addEmployee(u.ID, "Alice", &mid)

			tasks.byCreator[managerUserID] = []*taskDatamodel.Task{
				taskDue("DONE", 4, now),
				taskDue("WORKING", 2, now),
				taskDue("DONE", 3, now.AddDate(0, 0, -3)),
			}

			resp, err := service.Dashboard(ctx, managerUserID, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.TotalEmployees).To(Equal(1))
			Expect(resp.ActiveEmployees).To(Equal(1))
			Expect(resp.TotalTasks).To(Equal(3))
			Expect(resp.CompletedTasks).To(Equal(2))
			Expect(resp.CompletionRate).To(Equal(67))
		})

		It("buckets assigned hours by due date over the last 7 days", func() {
			tasks.byCreator[managerUserID] = []*taskDatamodel.Task{
				taskDue("TODO", 4, now),
				taskDue("TODO", 2, now),
				taskDue("TODO", 3, now.AddDate(0, 0, -2)),
				taskDue("TODO", 9, now.AddDate(0, 0, -10)),
			}

			resp, err := service.Dashboard(ctx, managerUserID, now)
			Expect(err).NotTo(HaveOccurred())

			week := resp.WeeklyData
			Expect(week[6].Day).To(Equal("Thu"))
			Expect(week[6].Hours).To(Equal(6.0))
			Expect(week[4].Hours).To(Equal(3.0))
			Expect(week[0].Hours).To(Equal(0.0))
		})

		It("computes a four week completion trend", func() {
			tasks.byCreator[managerUserID] = []*taskDatamodel.Task{
				taskDue("DONE", 1, now.AddDate(0, 0, -1)),
				taskDue("TODO", 1, now.AddDate(0, 0, -1)),
				taskDue("DONE", 1, now.AddDate(0, 0, -26)),
			}

			resp, err := service.Dashboard(ctx, managerUserID, now)
			Expect(err).NotTo(HaveOccurred())

			trend := resp.PerformanceData
			Expect(trend[0].Week).To(Equal("Week 1"))
			Expect(trend[0].Completion).To(Equal(100))
			Expect(trend[3].Completion).To(Equal(50))
			Expect(trend[1].Completion).To(Equal(0))
		})

		It("builds a team overview per employee", func() {
			u := addUser("alice@corp.test", internal.RoleOperator)
			mid := managerUserID
			addEmployee(u.ID, "Alice", &mid)

			tasks.byAssignee[u.ID] = []*taskDatamodel.Task{
				taskDue("DONE", 4, now),
				taskDue("WORKING", 2, now),
			}

			resp, err := service.Dashboard(ctx, managerUserID, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.TeamOverview).To(HaveLen(1))
			member := resp.TeamOverview[0]
			Expect(member.Name).To(Equal("Alice"))
			Expect(member.TasksCompleted).To(Equal(1))
			Expect(member.HoursLogged).To(Equal(6.0))
			Expect(member.Efficiency).To(Equal(50))
		})
	})

	Describe("Detail", func() {
		It("computes per-employee performance", func() {
			u := addUser("alice@corp.test", internal.RoleOperator)
			mid := managerUserID
			e := addEmployee(u.ID, "Alice", &mid)

			tasks.byAssignee[u.ID] = []*taskDatamodel.Task{
				taskDue("DONE", 4, now),
				taskDue("WORKING", 2, now),
				taskDue("STUCK", 1, now),
			}

			resp, err := service.Detail(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Employee.Email).To(Equal("alice@corp.test"))
			Expect(resp.Performance.TotalTasks).To(Equal(3))
			Expect(resp.Performance.Completed).To(Equal(1))
			Expect(resp.Performance.Working).To(Equal(1))
			Expect(resp.Performance.Stuck).To(Equal(1))
			Expect(resp.Performance.CompletionRate).To(Equal(33))
			Expect(resp.Performance.TotalHours).To(Equal(7.0))
			Expect(resp.Tasks).To(HaveLen(3))
		})

		It("returns not found for an unknown id", func() {
			_, err := service.Detail(ctx, 999)
			Expect(err).To(MatchError(employee.ErrNotFound))
		})
	})

	Describe("Assign", func() {
		It("moves an unassigned operator under a manager", func() {
			u := addUser("bob@corp.test", internal.RoleOperator)
			e := addEmployee(u.ID, "Bob", nil)

			view, err := service.Assign(ctx, employee.AssignDTO{
				EmployeeID:    e.ID,
				ManagerUserID: managerUserID,
				Department:    "Operations",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Department).To(Equal("Operations"))

			stored, _ := repo.GetByID(e.ID)
			Expect(stored.ManagerID).To(HaveValue(Equal(managerUserID)))
		})

		It("rejects a target user without a manager role", func() {
			u := addUser("bob@corp.test", internal.RoleOperator)
			e := addEmployee(u.ID, "Bob", nil)

			_, err := service.Assign(ctx, employee.AssignDTO{
				EmployeeID:    e.ID,
				ManagerUserID: u.ID,
			})
			Expect(err).To(MatchError(employee.ErrManagerNotFound))
		})

		It("rejects an employee whose user is not an operator", func() {
			u := addUser("lead@corp.test", internal.RoleManager)
			e := addEmployee(u.ID, "Lead", nil)

			_, err := service.Assign(ctx, employee.AssignDTO{
				EmployeeID:    e.ID,
				ManagerUserID: managerUserID,
			})
			Expect(err).To(MatchError(employee.ErrNotOperator))
		})

		It("returns not found for an unknown employee", func() {
			_, err := service.Assign(ctx, employee.AssignDTO{
				EmployeeID:    999,
				ManagerUserID: managerUserID,
			})
			Expect(err).To(MatchError(employee.ErrNotFound))
		})
	})

	Describe("NewJoiners", func() {
		It("lists only operators without a manager", func() {
			u1 := addUser("bob@corp.test", internal.RoleOperator)
			addEmployee(u1.ID, "Bob", nil)
			u2 := addUser("alice@corp.test", internal.RoleOperator)
			mid := managerUserID
			addEmployee(u2.ID, "Alice", &mid)

			joiners, err := service.NewJoiners(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(joiners).To(HaveLen(1))
			Expect(joiners[0].Name).To(Equal("Bob"))
		})
	})
})
