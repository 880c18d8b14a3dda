package auth

import (
	"strings"

	"github.com/stafftrack/hrm-backend/internal"
)

// RegisterDTO is the transport shape for POST /auth/register.
type RegisterDTO struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Name       string `json:"name,omitempty"`
	RoleTitle  string `json:"roleTitle,omitempty"`
	Department string `json:"department,omitempty"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d RegisterDTO) Validate() error {
	if d.Email == "" || d.Password == "" || d.Role == "" {
		return ValidationError{Msg: "email, password, role required"}
	}
	if !internal.IsValidRole(strings.ToUpper(d.Role)) {
		return ValidationError{Msg: "invalid role"}
	}
	return nil
}

func (d LoginDTO) Validate() error {
	if d.Email == "" || d.Password == "" {
		return ValidationError{Msg: "email & password required"}
	}
	return nil
}

type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	Email  string `json:"email"`
}

type MeResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}
