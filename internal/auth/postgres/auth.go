package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
)

// Repository implements auth.UserRepository using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(id int64) (*userDatamodel.User, error) {
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

func (r *Repository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

// UpsertExternalIdentity keys on email, refreshing the provider subject on
// conflict.
func (r *Repository) UpsertExternalIdentity(identity *userDatamodel.ExternalIdentity) error {
	identity.UpdatedAt = time.Now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = identity.UpdatedAt
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject", "updated_at"}),
	}).Create(identity).Error
}
