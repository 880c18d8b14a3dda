package postgres

import (
	"gorm.io/gorm"

	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
	"github.com/stafftrack/hrm-backend/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) CountAll() (int64, error) {
	var n int64
	err := r.db.Model(&userDatamodel.User{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountByEnabled(enabled bool) (int64, error) {
	var n int64
	err := r.db.Model(&userDatamodel.User{}).Where("enabled = ?", enabled).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountByRole(role string) (int64, error) {
	var n int64
	err := r.db.Model(&userDatamodel.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}
