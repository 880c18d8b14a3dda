package user

import "time"

// User is the identity record. PasswordHash is empty when authentication is
// delegated to an external identity provider.
type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;not null"`
	Enabled      bool      `gorm:"column:enabled;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ExternalIdentity maps an identity-provider subject to a local user.
type ExternalIdentity struct {
	ID        int64     `gorm:"primaryKey"`
	Provider  string    `gorm:"column:provider;not null"`
	Subject   string    `gorm:"column:subject;not null"`
	Email     string    `gorm:"column:email;uniqueIndex;not null"`
	UserID    int64     `gorm:"column:user_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ExternalIdentity) TableName() string {
	return "external_identities"
}
