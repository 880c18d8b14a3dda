package user

import (
	"errors"
	"time"

	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidRole = errors.New("invalid role")
)

// User is the admin listing view.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}

// ChangeRoleDTO is the admin role update payload.
type ChangeRoleDTO struct {
	Role string `json:"role"`
}

func (dto ChangeRoleDTO) Validate() error {
	if dto.Role == "" {
		return errors.New("role is required")
	}
	return nil
}

// AdminStats is the admin dashboard counter block.
type AdminStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	ActiveUsers   int64 `json:"activeUsers"`
	DisabledUsers int64 `json:"disabledUsers"`
	Managers      int64 `json:"managers"`
}
