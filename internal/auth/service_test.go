package auth_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/stafftrack/hrm-backend/internal"
	"github.com/stafftrack/hrm-backend/internal/auth"
	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// MockUserRepository implements auth.UserRepository in memory.
type MockUserRepository struct {
	users  map[int64]*userDatamodel.User
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*userDatamodel.User), nextID: 1}
}

func (m *MockUserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	return m.users[id], nil
}

func (m *MockUserRepository) Create(u *userDatamodel.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockUserRepository) UpsertExternalIdentity(identity *userDatamodel.ExternalIdentity) error {
	return nil
}

// MockProvisioner records profile provisioning calls.
type MockProvisioner struct {
	calls []ProvisionCall
}

type ProvisionCall struct {
	UserID     int64
	Name       string
	RoleTitle  string
	Department string
}

func (m *MockProvisioner) ProvisionProfile(userID int64, name, roleTitle, department string, managerID *int64) error {
	m.calls = append(m.calls, ProvisionCall{UserID: userID, Name: name, RoleTitle: roleTitle, Department: department})
	return nil
}

// MockSessionTracker records session starts and stops.
type MockSessionTracker struct {
	started []int64
	closed  []int64
}

func (m *MockSessionTracker) StartSession(ctx context.Context, userID int64, now time.Time) error {
	m.started = append(m.started, userID)
	return nil
}

func (m *MockSessionTracker) CloseSessionOnLogout(ctx context.Context, userID int64, now time.Time) error {
	m.closed = append(m.closed, userID)
	return nil
}

var _ = Describe("Auth Service", func() {
	var (
		users       *MockUserRepository
		provisioner *MockProvisioner
		sessions    *MockSessionTracker
		tokens      *auth.JWTTokenGenerator
		service     *auth.Service
		ctx         context.Context
	)

	addUser := func(email, password, role string, enabled bool) *userDatamodel.User {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		u := &userDatamodel.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			Enabled:      enabled,
		}
		Expect(users.Create(u)).To(Succeed())
		return u
	}

	BeforeEach(func() {
		users = NewMockUserRepository()
		provisioner = &MockProvisioner{}
		sessions = &MockSessionTracker{}
		tokens = auth.NewJWTTokenGenerator("test-secret", time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		verifier := auth.NewLocalVerifier(users)
		service = auth.NewService(users, provisioner, sessions, verifier, tokens, bcrypt.MinCost, logger)
		ctx = context.Background()
	})

	Describe("Register", func() {
		It("creates an enabled user with an uppercased role", func() {
			resp, err := service.Register(ctx, auth.RegisterDTO{
				Email:    "boss@corp.test",
				Password: "s3cret!pass",
				Role:     "manager",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Role).To(Equal(internal.RoleManager))

			u, _ := users.GetByID(resp.ID)
			Expect(u.Enabled).To(BeTrue())
			Expect(u.PasswordHash).NotTo(BeEmpty())
			Expect(provisioner.calls).To(BeEmpty())
		})

		It("provisions a profile for operators with defaults from the email", func() {
			resp, err := service.Register(ctx, auth.RegisterDTO{
				Email:    "alice@corp.test",
				Password: "s3cret!pass",
				Role:     internal.RoleOperator,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(provisioner.calls).To(HaveLen(1))
			call := provisioner.calls[0]
			Expect(call.UserID).To(Equal(resp.ID))
			Expect(call.Name).To(Equal("alice"))
			Expect(call.RoleTitle).To(Equal("Operator"))
			Expect(call.Department).To(Equal("Operations"))
		})

		It("keeps an explicit profile name and titles", func() {
			_, err := service.Register(ctx, auth.RegisterDTO{
				Email:      "alice@corp.test",
				Password:   "s3cret!pass",
				Role:       internal.RoleOperator,
				Name:       "Alice Smith",
				RoleTitle:  "Field Operator",
				Department: "Logistics",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(provisioner.calls[0].Name).To(Equal("Alice Smith"))
			Expect(provisioner.calls[0].RoleTitle).To(Equal("Field Operator"))
			Expect(provisioner.calls[0].Department).To(Equal("Logistics"))
		})

		It("rejects a taken email", func() {
			addUser("alice@corp.test", "pw", internal.RoleOperator, true)

			_, err := service.Register(ctx, auth.RegisterDTO{
				Email:    "alice@corp.test",
				Password: "s3cret!pass",
				Role:     internal.RoleOperator,
			})
			Expect(err).To(MatchError(auth.ErrEmailTaken))
		})

		It("rejects an unknown role", func() {
			_, err := service.Register(ctx, auth.RegisterDTO{
				Email:    "alice@corp.test",
				Password: "s3cret!pass",
				Role:     "SUPERVISOR",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Login", func() {
		It("returns a token and opens the day's session", func() {
			u := addUser("alice@corp.test", "s3cret!pass", internal.RoleOperator, true)

			resp, err := service.Login(ctx, auth.LoginDTO{Email: "alice@corp.test", Password: "s3cret!pass"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.UserID).To(Equal(u.ID))
			Expect(resp.Role).To(Equal(internal.RoleOperator))
			Expect(sessions.started).To(Equal([]int64{u.ID}))

			claims, err := tokens.ValidateToken(resp.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(u.ID))
			Expect(claims.Email).To(Equal("alice@corp.test"))
			Expect(claims.Role).To(Equal(internal.RoleOperator))
		})

		It("rejects a wrong password", func() {
			addUser("alice@corp.test", "s3cret!pass", internal.RoleOperator, true)

			_, err := service.Login(ctx, auth.LoginDTO{Email: "alice@corp.test", Password: "wrong"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
			Expect(sessions.started).To(BeEmpty())
		})

		It("rejects an unknown email", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Email: "nobody@corp.test", Password: "pw"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects a disabled user", func() {
			addUser("alice@corp.test", "s3cret!pass", internal.RoleOperator, false)

			_, err := service.Login(ctx, auth.LoginDTO{Email: "alice@corp.test", Password: "s3cret!pass"})
			Expect(err).To(MatchError(auth.ErrUserDisabled))
			Expect(sessions.started).To(BeEmpty())
		})

		It("rejects an account without a local hash", func() {
			u := &userDatamodel.User{Email: "sso@corp.test", Role: internal.RoleOperator, Enabled: true}
			Expect(users.Create(u)).To(Succeed())

			_, err := service.Login(ctx, auth.LoginDTO{Email: "sso@corp.test", Password: "anything"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})
	})

	Describe("Logout", func() {
		It("closes the day's session", func() {
			Expect(service.Logout(ctx, 42)).To(Succeed())
			Expect(sessions.closed).To(Equal([]int64{42}))
		})
	})

	Describe("token validation", func() {
		It("rejects a token signed with another secret", func() {
			other := auth.NewJWTTokenGenerator("other-secret", time.Hour)
			token, err := other.GenerateToken(1, "a@b.test", internal.RoleOperator)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects an expired token", func() {
			short := auth.NewJWTTokenGenerator("test-secret", time.Nanosecond)
			token, err := short.GenerateToken(1, "a@b.test", internal.RoleOperator)
			Expect(err).NotTo(HaveOccurred())

			time.Sleep(10 * time.Millisecond)
			_, err = tokens.ValidateToken(token)
			Expect(err).To(MatchError(auth.ErrTokenExpired))
		})
	})
})
