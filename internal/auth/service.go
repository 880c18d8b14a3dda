package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stafftrack/hrm-backend/internal"
	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
)

// UserRepository is the data access the auth service needs.
type UserRepository interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	UpsertExternalIdentity(identity *userDatamodel.ExternalIdentity) error
}

// EmployeeProvisioner creates the staff profile that backs an operator user.
type EmployeeProvisioner interface {
	ProvisionProfile(userID int64, name, roleTitle, department string, managerID *int64) error
}

// SessionTracker opens an attendance session on login and closes it on
// logout.
type SessionTracker interface {
	StartSession(ctx context.Context, userID int64, now time.Time) error
	CloseSessionOnLogout(ctx context.Context, userID int64, now time.Time) error
}

// CredentialVerifier checks a credential pair and returns the local user it
// maps to. Implementations: LocalVerifier (bcrypt against the users table)
// and KeycloakVerifier (OIDC password grant, find-or-create local user).
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*userDatamodel.User, error)
}

type Service struct {
	users      UserRepository
	employees  EmployeeProvisioner
	sessions   SessionTracker
	verifier   CredentialVerifier
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserRepository, employees EmployeeProvisioner, sessions SessionTracker, verifier CredentialVerifier, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		employees:  employees,
		sessions:   sessions,
		verifier:   verifier,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a user; operators additionally get an employee profile
// with name defaulting to the email's local part.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*RegisterResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := strings.ToUpper(dto.Role)

	if existing, err := s.users.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &userDatamodel.User{
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         role,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	if role == internal.RoleOperator {
		name := dto.Name
		if name == "" {
			name = emailLocalPart(dto.Email)
		}
		roleTitle := dto.RoleTitle
		if roleTitle == "" {
			roleTitle = "Operator"
		}
		department := dto.Department
		if department == "" {
			department = "Operations"
		}
		if err := s.employees.ProvisionProfile(u.ID, name, roleTitle, department, nil); err != nil {
			s.logger.Error("failed to provision employee profile", "error", err, "user_id", u.ID)
			return nil, err
		}
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", role)

	return &RegisterResponse{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

// Login verifies credentials through the configured strategy, mints an app
// token and opens today's attendance session.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.verifier.Verify(ctx, dto.Email, dto.Password)
	if err != nil {
		return nil, err
	}

	if !u.Enabled {
		return nil, ErrUserDisabled
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		s.logger.Error("failed to generate token", "error", err, "user_id", u.ID)
		return nil, err
	}

	if err := s.sessions.StartSession(ctx, u.ID, time.Now()); err != nil {
		// Login still succeeds; attendance bookkeeping is best effort here.
		s.logger.Error("failed to open attendance session", "error", err, "user_id", u.ID)
	}

	return &LoginResponse{
		Token:  token,
		UserID: u.ID,
		Role:   u.Role,
		Email:  u.Email,
	}, nil
}

// Logout closes today's attendance session for the user.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.sessions.CloseSessionOnLogout(ctx, userID, time.Now())
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// GetUser loads the user behind a validated token; the auth middleware calls
// it on every request so disables and role changes take effect immediately.
func (s *Service) GetUser(userID int64) (*userDatamodel.User, error) {
	return s.users.GetByID(userID)
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
