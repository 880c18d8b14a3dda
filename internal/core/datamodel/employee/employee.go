package employee

import "time"

// Employee is the staff profile attached 1:1 to an operator user. ManagerID
// points at the managing user's id, not at another employee row.
type Employee struct {
	ID         int64     `gorm:"primaryKey"`
	UserID     int64     `gorm:"column:user_id;uniqueIndex;not null"`
	Name       string    `gorm:"column:name;not null"`
	RoleTitle  string    `gorm:"column:role_title"`
	Department string    `gorm:"column:department"`
	Status     string    `gorm:"column:status;default:Active"`
	ManagerID  *int64    `gorm:"column:manager_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
