package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/stafftrack/hrm-backend/internal"
	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
)

type Repository interface {
	List() ([]*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Update(u *userDatamodel.User) error
	CountAll() (int64, error)
	CountByEnabled(enabled bool) (int64, error)
	CountByRole(role string) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	return FromDataModelSlice(users), nil
}

// ToggleStatus flips the enabled flag.
func (s *Service) ToggleStatus(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	u.Enabled = !u.Enabled
	u.UpdatedAt = time.Now()
	if err := s.repo.Update(u); err != nil {
		return nil, err
	}

	s.logger.Info("user status toggled", "user_id", u.ID, "enabled", u.Enabled)
	return FromDataModel(u), nil
}

// ChangeRole normalizes the role to upper case before validating and
// updating.
func (s *Service) ChangeRole(ctx context.Context, userID int64, role string) (*User, error) {
	normalized := strings.ToUpper(role)
	if !internal.IsValidRole(normalized) {
		return nil, ErrInvalidRole
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	u.Role = normalized
	u.UpdatedAt = time.Now()
	if err := s.repo.Update(u); err != nil {
		return nil, err
	}

	s.logger.Info("user role changed", "user_id", u.ID, "role", normalized)
	return FromDataModel(u), nil
}

func (s *Service) Stats(ctx context.Context) (*AdminStats, error) {
	total, err := s.repo.CountAll()
	if err != nil {
		return nil, err
	}
	active, err := s.repo.CountByEnabled(true)
	if err != nil {
		return nil, err
	}
	disabled, err := s.repo.CountByEnabled(false)
	if err != nil {
		return nil, err
	}
	managers, err := s.repo.CountByRole(internal.RoleManager)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		TotalUsers:    total,
		ActiveUsers:   active,
		DisabledUsers: disabled,
		Managers:      managers,
	}, nil
}
