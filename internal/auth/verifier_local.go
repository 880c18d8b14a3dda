package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
)

// LocalVerifier checks the password against the stored bcrypt hash.
type LocalVerifier struct {
	users UserRepository
}

func NewLocalVerifier(users UserRepository) *LocalVerifier {
	return &LocalVerifier{users: users}
}

func (v *LocalVerifier) Verify(ctx context.Context, email, password string) (*userDatamodel.User, error) {
	u, err := v.users.GetByEmail(email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	// Externally managed accounts carry no local hash.
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
